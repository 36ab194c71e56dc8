package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"swingfox_server/models"
	"swingfox_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

var (
	// ErrQueryTooShort rejects search queries under two characters.
	ErrQueryTooShort = errors.New("search query too short")
	// ErrMessageNotFound means no message row carries the given id.
	ErrMessageNotFound = errors.New("message not found")
	// ErrNotMessageSender rejects deletes by anyone but the original sender.
	ErrNotMessageSender = errors.New("only the sender may delete a message")
)

// searchScanLimit caps how many recent rows a substring search walks.
const searchScanLimit = 500

// MessageService is the DynamoDB-backed message log.
type MessageService struct {
	Dynamo      *DynamoService
	Attachments AttachmentCleaner // optional; cleans blobs orphaned by deletes
}

var _ MessageStore = (*MessageService)(nil)

// Append assigns the next per-conversation sequence number and persists the
// message. Order within a conversation is the append sequence, never wall
// clock, so concurrent senders cannot reorder each other via clock skew.
func (s *MessageService) Append(ctx context.Context, msg models.Message) (models.Message, error) {
	seq, err := s.nextSeq(ctx, msg.ConversationID)
	if err != nil {
		return models.Message{}, fmt.Errorf("failed to allocate message sequence: %w", err)
	}

	msg.Seq = seq
	if msg.MessageID == "" {
		msg.MessageID = uuid.New().String()
	}
	if msg.CreatedAt == "" {
		msg.CreatedAt = time.Now().Format(time.RFC3339)
	}

	if err := s.Dynamo.PutItem(ctx, models.MessagesTable, msg); err != nil {
		log.Printf("❌ Failed to store message %s: %v", msg.MessageID, err)
		return models.Message{}, fmt.Errorf("failed to store message: %w", err)
	}
	return msg, nil
}

// nextSeq bumps the conversation's atomic counter and returns the new value.
func (s *MessageService) nextSeq(ctx context.Context, conversationID string) (int64, error) {
	key := map[string]types.AttributeValue{
		"conversationId": &types.AttributeValueMemberS{Value: conversationID},
	}
	updateExpression := "ADD lastSeq :one"
	expressionValues := map[string]types.AttributeValue{
		":one": &types.AttributeValueMemberN{Value: "1"},
	}

	attrs, err := s.Dynamo.UpdateItem(ctx, models.ConversationSeqTable, updateExpression, key, expressionValues, nil)
	if err != nil {
		return 0, err
	}
	seq := utils.ExtractInt64(attrs, "lastSeq")
	if seq == 0 {
		return 0, errors.New("sequence counter returned no value")
	}
	return seq, nil
}

// History returns a page of a conversation. The store is queried newest
// first for pagination and the page is reversed before returning, so callers
// present chronologically.
func (s *MessageService) History(ctx context.Context, conversationID string, limit, offset int) ([]models.Message, error) {
	if limit <= 0 {
		limit = 50
	}

	keyCondition := "conversationId = :cid"
	expressionValues := map[string]types.AttributeValue{
		":cid": &types.AttributeValueMemberS{Value: conversationID},
	}

	items, err := s.Dynamo.QueryItemsWithOptions(ctx, models.MessagesTable, keyCondition, expressionValues, nil, int32(limit+offset), true)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	messages, err := unmarshalMessages(items)
	if err != nil {
		return nil, err
	}
	if offset >= len(messages) {
		return []models.Message{}, nil
	}
	messages = messages[offset:]

	reverseMessages(messages)
	return messages, nil
}

// RecentMessages returns the newest rows where the identity is sender or
// recipient, across all of its conversations.
func (s *MessageService) RecentMessages(ctx context.Context, identity string, limit int) ([]models.Message, error) {
	sent, err := s.queryIndex(ctx, models.SenderIndex, "senderId = :id", identity, "", int32(limit))
	if err != nil {
		return nil, err
	}
	received, err := s.queryIndex(ctx, models.RecipientIndex, "recipientId = :id", identity, "", int32(limit))
	if err != nil {
		return nil, err
	}

	merged := append(sent, received...)
	sortNewestFirst(merged)
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

// HasMessages reports whether the conversation holds at least one message.
func (s *MessageService) HasMessages(ctx context.Context, conversationID string) (bool, error) {
	keyCondition := "conversationId = :cid"
	expressionValues := map[string]types.AttributeValue{
		":cid": &types.AttributeValueMemberS{Value: conversationID},
	}

	items, err := s.Dynamo.QueryItems(ctx, models.MessagesTable, keyCondition, expressionValues, nil, 1)
	if err != nil {
		return false, fmt.Errorf("failed to probe conversation %s: %w", conversationID, err)
	}
	return len(items) > 0, nil
}

// CountHumanMessagesBefore counts non-bot messages on the channel with a
// sequence strictly below seq. The bot engine uses it to decide whether the
// triggering message was the first human one.
func (s *MessageService) CountHumanMessagesBefore(ctx context.Context, conversationID string, seq int64) (int, error) {
	keyCondition := "conversationId = :cid AND seq < :seq"
	expressionValues := map[string]types.AttributeValue{
		":cid": &types.AttributeValueMemberS{Value: conversationID},
		":seq": &types.AttributeValueMemberN{Value: strconv.FormatInt(seq, 10)},
		":bot": &types.AttributeValueMemberS{Value: models.BotIdentityID},
	}
	filterExpression := "senderId <> :bot"

	items, err := s.Dynamo.QueryItemsWithFilters(ctx, models.MessagesTable, keyCondition, expressionValues, nil, filterExpression)
	if err != nil {
		return 0, fmt.Errorf("failed to count prior messages: %w", err)
	}
	return len(items), nil
}

// CountUnread counts messages addressed to the identity on the conversation
// that are still unread.
func (s *MessageService) CountUnread(ctx context.Context, conversationID, identity string) (int, error) {
	keyCondition := "conversationId = :cid"
	expressionValues := map[string]types.AttributeValue{
		":cid":   &types.AttributeValueMemberS{Value: conversationID},
		":me":    &types.AttributeValueMemberS{Value: identity},
		":false": &types.AttributeValueMemberBOOL{Value: false},
	}
	filterExpression := "recipientId = :me AND isRead = :false"

	items, err := s.Dynamo.QueryItemsWithFilters(ctx, models.MessagesTable, keyCondition, expressionValues, nil, filterExpression)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return len(items), nil
}

// LatestClubEventID finds the event of the human's existing channel with the
// club, if any. The router reuses it so a stale client cannot fork a second
// event thread by accident.
func (s *MessageService) LatestClubEventID(ctx context.Context, clubID, humanID string) (string, error) {
	sent, err := s.queryIndex(ctx, models.SenderIndex, "senderId = :id", humanID, clubID, 50)
	if err != nil {
		return "", err
	}
	received, err := s.queryIndex(ctx, models.RecipientIndex, "recipientId = :id", humanID, clubID, 50)
	if err != nil {
		return "", err
	}

	merged := append(sent, received...)
	if len(merged) == 0 {
		return "", nil
	}
	sortNewestFirst(merged)
	return merged[0].EventID, nil
}

// MarkRead flips every unread message addressed to the identity on the
// conversation. Running it again is a no-op.
func (s *MessageService) MarkRead(ctx context.Context, conversationID, identity string) error {
	keyCondition := "conversationId = :cid"
	expressionValues := map[string]types.AttributeValue{
		":cid":   &types.AttributeValueMemberS{Value: conversationID},
		":me":    &types.AttributeValueMemberS{Value: identity},
		":false": &types.AttributeValueMemberBOOL{Value: false},
	}
	filterExpression := "recipientId = :me AND isRead = :false"

	items, err := s.Dynamo.QueryItemsWithFilters(ctx, models.MessagesTable, keyCondition, expressionValues, nil, filterExpression)
	if err != nil {
		return fmt.Errorf("failed to fetch unread messages: %w", err)
	}

	for _, item := range items {
		key := map[string]types.AttributeValue{
			"conversationId": &types.AttributeValueMemberS{Value: conversationID},
			"seq":            &types.AttributeValueMemberN{Value: strconv.FormatInt(utils.ExtractInt64(item, "seq"), 10)},
		}
		updateExpression := "SET isRead = :true"
		updateValues := map[string]types.AttributeValue{
			":true": &types.AttributeValueMemberBOOL{Value: true},
		}
		if _, err := s.Dynamo.UpdateItem(ctx, models.MessagesTable, updateExpression, key, updateValues, nil); err != nil {
			log.Printf("❌ Failed to mark message %s as read: %v", utils.ExtractString(item, "messageId"), err)
		}
	}
	return nil
}

// GroupByDay partitions the conversation's recent history by local calendar
// date, most recent day first. Days without messages are omitted.
func (s *MessageService) GroupByDay(ctx context.Context, conversationID string, sinceDays int) ([]models.DayGroup, error) {
	if sinceDays <= 0 {
		sinceDays = 7
	}

	keyCondition := "conversationId = :cid"
	expressionValues := map[string]types.AttributeValue{
		":cid": &types.AttributeValueMemberS{Value: conversationID},
	}

	items, err := s.Dynamo.QueryItemsWithOptions(ctx, models.MessagesTable, keyCondition, expressionValues, nil, searchScanLimit, true)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	messages, err := unmarshalMessages(items)
	if err != nil {
		return nil, err
	}

	since := time.Now().AddDate(0, 0, -sinceDays)
	return partitionByDay(messages, since), nil
}

// Search runs a case-insensitive substring match over the identity's recent
// messages, optionally restricted to one peer.
func (s *MessageService) Search(ctx context.Context, identity, query, peer string) ([]models.Message, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < 2 {
		return nil, ErrQueryTooShort
	}

	rows, err := s.RecentMessages(ctx, identity, searchScanLimit)
	if err != nil {
		return nil, err
	}

	var matches []models.Message
	for _, m := range rows {
		if m.Deleted {
			continue
		}
		if peer != "" && m.Peer(identity) != peer {
			continue
		}
		if matchesQuery(m.Body, query) {
			matches = append(matches, m)
		}
	}
	return matches, nil
}

// DeleteMessage removes a message on behalf of its original sender. With
// forAll the row disappears for both parties; otherwise the body is
// tombstoned and the attachments cleared. Either way the orphaned blobs are
// cleaned up.
func (s *MessageService) DeleteMessage(ctx context.Context, messageID, requesterID string, forAll bool) error {
	keyCondition := "messageId = :mid"
	expressionValues := map[string]types.AttributeValue{
		":mid": &types.AttributeValueMemberS{Value: messageID},
	}

	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.MessagesTable, models.MessageIDIndex, keyCondition, expressionValues, nil, "", 1)
	if err != nil {
		return fmt.Errorf("failed to look up message %s: %w", messageID, err)
	}
	if len(items) == 0 {
		return ErrMessageNotFound
	}

	var row models.Message
	if err := attributevalue.UnmarshalMap(items[0], &row); err != nil {
		return fmt.Errorf("failed to parse message: %w", err)
	}
	if row.SenderID != requesterID {
		return ErrNotMessageSender
	}

	key := map[string]types.AttributeValue{
		"conversationId": &types.AttributeValueMemberS{Value: utils.ExtractString(items[0], "conversationId")},
		"seq":            &types.AttributeValueMemberN{Value: strconv.FormatInt(utils.ExtractInt64(items[0], "seq"), 10)},
	}

	if forAll {
		if err := s.Dynamo.DeleteItem(ctx, models.MessagesTable, key); err != nil {
			return err
		}
	} else {
		updateExpression := "SET body = :tombstone, deleted = :true REMOVE attachments"
		updateValues := map[string]types.AttributeValue{
			":tombstone": &types.AttributeValueMemberS{Value: models.TombstoneBody},
			":true":      &types.AttributeValueMemberBOOL{Value: true},
		}
		if _, err := s.Dynamo.UpdateItem(ctx, models.MessagesTable, updateExpression, key, updateValues, nil); err != nil {
			return err
		}
	}

	if s.Attachments != nil && len(row.Attachments) > 0 {
		s.Attachments.DeleteBlobs(ctx, row.Attachments)
	}
	return nil
}

// queryIndex fetches message rows through a GSI, optionally filtered to one
// club's channels.
func (s *MessageService) queryIndex(ctx context.Context, indexName, keyCondition, identity, clubID string, limit int32) ([]models.Message, error) {
	expressionValues := map[string]types.AttributeValue{
		":id": &types.AttributeValueMemberS{Value: identity},
	}
	filterExpression := ""
	if clubID != "" {
		filterExpression = "clubId = :club"
		expressionValues[":club"] = &types.AttributeValueMemberS{Value: clubID}
	}

	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.MessagesTable, indexName, keyCondition, expressionValues, nil, filterExpression, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", indexName, err)
	}
	return unmarshalMessages(items)
}

func unmarshalMessages(items []map[string]types.AttributeValue) ([]models.Message, error) {
	var messages []models.Message
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse messages: %w", err)
	}
	return messages, nil
}

func reverseMessages(messages []models.Message) {
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
}

// sortNewestFirst orders rows from different conversations by creation time,
// breaking ties with the append sequence.
func sortNewestFirst(messages []models.Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		if messages[i].CreatedAt != messages[j].CreatedAt {
			return messages[i].CreatedAt > messages[j].CreatedAt
		}
		return messages[i].Seq > messages[j].Seq
	})
}

// partitionByDay groups newest-first rows into calendar days, skipping rows
// older than since. Groups come out most recent day first with their
// messages in chronological order.
func partitionByDay(newestFirst []models.Message, since time.Time) []models.DayGroup {
	var groups []models.DayGroup
	index := map[string]int{}

	for _, m := range newestFirst {
		t, err := time.Parse(time.RFC3339, m.CreatedAt)
		if err != nil {
			log.Printf("❌ Skipping message %s with bad timestamp %q", m.MessageID, m.CreatedAt)
			continue
		}
		if t.Before(since) {
			continue
		}

		day := t.Local().Format("2006-01-02")
		i, ok := index[day]
		if !ok {
			groups = append(groups, models.DayGroup{Date: day})
			i = len(groups) - 1
			index[day] = i
		}
		groups[i].Messages = append(groups[i].Messages, m)
	}

	for i := range groups {
		reverseMessages(groups[i].Messages)
	}
	return groups
}

func matchesQuery(body, query string) bool {
	return strings.Contains(strings.ToLower(body), strings.ToLower(query))
}
