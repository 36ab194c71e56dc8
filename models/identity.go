package models

import "strings"

// IdentityKind tells which kind of participant an identity handle refers to.
type IdentityKind int

const (
	IdentityHuman IdentityKind = iota
	IdentityClub
	IdentityBot
)

// Wire shapes for non-human identities.
const (
	ClubIdentityPrefix = "club_"
	BotIdentityID      = "bot"
)

// Identity is the parsed form of an identity handle. The handle shape
// (club_<clubId> prefix, literal "bot") is resolved once at the boundary so
// internal logic never re-parses strings.
type Identity struct {
	Kind   IdentityKind
	ID     string // the full handle as it appears on messages
	ClubID string // set only for club identities
}

// ParseIdentity classifies a raw identity handle by its shape.
func ParseIdentity(raw string) Identity {
	if raw == BotIdentityID {
		return Identity{Kind: IdentityBot, ID: raw}
	}
	if strings.HasPrefix(raw, ClubIdentityPrefix) && len(raw) > len(ClubIdentityPrefix) {
		return Identity{Kind: IdentityClub, ID: raw, ClubID: strings.TrimPrefix(raw, ClubIdentityPrefix)}
	}
	return Identity{Kind: IdentityHuman, ID: raw}
}

func (i Identity) IsHuman() bool { return i.Kind == IdentityHuman }
func (i Identity) IsClub() bool  { return i.Kind == IdentityClub }
func (i Identity) IsBot() bool   { return i.Kind == IdentityBot }

// ClubIdentityID builds the pseudo-identity handle a club chats under.
func ClubIdentityID(clubID string) string {
	return ClubIdentityPrefix + clubID
}
