package dynamo

import (
	"context"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/mkovac00/travelshare-backend/internal/domain"
)

// edgeRecord is a single follow relationship. It is the only place the
// relationship exists; the following and followers views are both reads
// over these records.
type edgeRecord struct {
	FollowerID string `dynamodbav:"follower_id"`
	FolloweeID string `dynamodbav:"followee_id"`
	CreatedAt  string `dynamodbav:"created_at"`
}

func (s *Store) edgeKey(followerID, followeeID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"follower_id": &types.AttributeValueMemberS{Value: followerID},
		"followee_id": &types.AttributeValueMemberS{Value: followeeID},
	}
}

// HasEdge reports whether the edge exists, from a strongly consistent read.
func (s *Store) HasEdge(ctx context.Context, followerID, followeeID string) (bool, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.config.FollowTable),
		Key:            s.edgeKey(followerID, followeeID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return false, transient("get edge", err)
	}
	return result.Item != nil, nil
}

// PutEdge creates the edge. A concurrent follow that already created it
// fails this writer's condition and surfaces as ErrConflict.
func (s *Store) PutEdge(ctx context.Context, followerID, followeeID string, at time.Time) error {
	item, err := attributevalue.MarshalMap(edgeRecord{
		FollowerID: followerID,
		FolloweeID: followeeID,
		CreatedAt:  at.UTC().Format(edgeTimeFormat),
	})
	if err != nil {
		return transient("marshal edge", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.config.FollowTable),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(follower_id)"),
	})
	return translateWrite("put edge", err, domain.ErrConflict)
}

// DeleteEdge removes the edge. A concurrent unfollow that already removed
// it fails this writer's condition and surfaces as ErrConflict.
func (s *Store) DeleteEdge(ctx context.Context, followerID, followeeID string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(s.config.FollowTable),
		Key:                 s.edgeKey(followerID, followeeID),
		ConditionExpression: aws.String("attribute_exists(follower_id)"),
	})
	return translateWrite("delete edge", err, domain.ErrConflict)
}

// Following returns the ids userID follows, in edge insertion order.
func (s *Store) Following(ctx context.Context, userID string) ([]string, error) {
	edges, err := s.queryEdges(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.config.FollowTable),
		KeyConditionExpression: aws.String("follower_id = :id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":id": &types.AttributeValueMemberS{Value: userID},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}

	sortEdgesByCreation(edges)
	ids := make([]string, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.FolloweeID)
	}
	return ids, nil
}

// Followers returns the ids following userID, in edge insertion order,
// served by the by-followee GSI.
func (s *Store) Followers(ctx context.Context, userID string) ([]string, error) {
	edges, err := s.queryEdges(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.config.FollowTable),
		IndexName:              aws.String(byFolloweeIndex),
		KeyConditionExpression: aws.String("followee_id = :id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":id": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, err
	}

	sortEdgesByCreation(edges)
	ids := make([]string, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.FollowerID)
	}
	return ids, nil
}

func (s *Store) queryEdges(ctx context.Context, input *dynamodb.QueryInput) ([]edgeRecord, error) {
	var edges []edgeRecord
	paginator := dynamodb.NewQueryPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, transient("query edges", err)
		}
		for _, raw := range page.Items {
			var rec edgeRecord
			if err := attributevalue.UnmarshalMap(raw, &rec); err != nil {
				return nil, transient("unmarshal edge", err)
			}
			edges = append(edges, rec)
		}
	}
	return edges, nil
}

// sortEdgesByCreation orders edges by creation time, oldest first. The
// table's range key orders edges by id, so insertion order has to be
// restored here.
func sortEdgesByCreation(edges []edgeRecord) {
	sort.SliceStable(edges, func(a, b int) bool {
		ta, tb := parseTime(edges[a].CreatedAt), parseTime(edges[b].CreatedAt)
		if ta.Equal(tb) {
			return edges[a].FolloweeID < edges[b].FolloweeID
		}
		return ta.Before(tb)
	})
}
