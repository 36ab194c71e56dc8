package models

// LikeEdge is a directed like relation between two identities. At most one
// edge exists per ordered pair; a match exists once both directions do.
type LikeEdge struct {
	PK         string `dynamodbav:"PK" json:"-"` // USER#<from>
	SK         string `dynamodbav:"SK" json:"-"` // LIKE#<to>
	FromID     string `dynamodbav:"fromId" json:"fromId"`
	ToID       string `dynamodbav:"toId" json:"toId"`
	Reciprocal string `dynamodbav:"reciprocal,omitempty" json:"reciprocal,omitempty"`
	CreatedAt  string `dynamodbav:"createdAt" json:"createdAt"`
}

// LikeEdgesTable is the DynamoDB table name for like edges
const LikeEdgesTable = "LikeEdges"

// ReciprocalMutual marks an edge whose reverse edge also exists.
const ReciprocalMutual = "mutual"

func LikeEdgePK(fromID string) string { return "USER#" + fromID }
func LikeEdgeSK(toID string) string   { return "LIKE#" + toID }
