package models

// UserProfile is the slice of a profile the chat core needs: recipient
// existence checks and conversation-list previews.
type UserProfile struct {
	UserID string   `dynamodbav:"userId" json:"userId"`
	Name   string   `dynamodbav:"name,omitempty" json:"name,omitempty"`
	Photos []string `dynamodbav:"photos,omitempty" json:"photos,omitempty"`
	City   string   `dynamodbav:"city,omitempty" json:"city,omitempty"`
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "UserProfiles"

// PlaceholderProfile stands in for a peer whose profile no longer resolves,
// so conversation lists stay consistent with the raw message log.
func PlaceholderProfile(userID string) *UserProfile {
	return &UserProfile{UserID: userID, Name: "Deleted profile"}
}
