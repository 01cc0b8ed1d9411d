package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/mkovac00/travelshare-backend/internal/domain"
)

// postRecord is the stored shape of a post.
type postRecord struct {
	ID          string   `dynamodbav:"id"`
	Creator     string   `dynamodbav:"creator"`
	Description string   `dynamodbav:"description"`
	Image       string   `dynamodbav:"image"`
	Hearts      []string `dynamodbav:"hearts"`
	Version     int64    `dynamodbav:"version"`
	CreatedAt   string   `dynamodbav:"created_at"`
	UpdatedAt   string   `dynamodbav:"updated_at"`
}

func postToRecord(p *domain.Post) postRecord {
	hearts := p.Hearts
	if hearts == nil {
		hearts = []string{}
	}
	return postRecord{
		ID:          p.ID,
		Creator:     p.Creator,
		Description: p.Description,
		Image:       p.Image,
		Hearts:      hearts,
		Version:     p.Version,
		CreatedAt:   p.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt:   p.UpdatedAt.UTC().Format(timeFormat),
	}
}

func (r postRecord) toDomain() *domain.Post {
	hearts := r.Hearts
	if hearts == nil {
		hearts = []string{}
	}
	return &domain.Post{
		ID:          r.ID,
		Creator:     r.Creator,
		Description: r.Description,
		Image:       r.Image,
		Hearts:      hearts,
		Version:     r.Version,
		CreatedAt:   parseTime(r.CreatedAt),
		UpdatedAt:   parseTime(r.UpdatedAt),
	}
}

func (s *Store) postKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

// GetPost retrieves a post by id with a strongly consistent read.
func (s *Store) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.config.PostsTable),
		Key:            s.postKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, transient("get post", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("get post %s: %w", id, domain.ErrNotFound)
	}

	var rec postRecord
	if err := attributevalue.UnmarshalMap(result.Item, &rec); err != nil {
		return nil, transient("unmarshal post", err)
	}
	return rec.toDomain(), nil
}

// CreatePost inserts the post and appends its id to the creator's post list
// in one transaction.
func (s *Store) CreatePost(ctx context.Context, post *domain.Post) error {
	rec := postToRecord(post)
	if rec.Version == 0 {
		rec.Version = 1
	}
	if post.UpdatedAt.IsZero() {
		rec.UpdatedAt = rec.CreatedAt
	}
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return transient("marshal post", err)
	}

	postIDAttr, err := attributevalue.Marshal([]string{post.ID})
	if err != nil {
		return transient("marshal post id", err)
	}

	_, err = s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           aws.String(s.config.PostsTable),
					Item:                item,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
			{
				Update: &types.Update{
					TableName:           aws.String(s.config.UsersTable),
					Key:                 s.userKey(post.Creator),
					UpdateExpression:    aws.String("SET posts = list_append(posts, :post), updated_at = :updated_at, #version = #version + :one"),
					ConditionExpression: aws.String("attribute_exists(id)"),
					ExpressionAttributeNames: map[string]string{
						"#version": "version",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":post":       postIDAttr,
						":updated_at": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(timeFormat)},
						":one":        &types.AttributeValueMemberN{Value: "1"},
					},
				},
			},
		},
	})

	return translateTransaction("create post", err, map[int]error{
		0: domain.ErrAlreadyExists,
		1: domain.ErrNotFound,
	})
}

// DeletePost removes the post record and its id from the creator's post
// list in one transaction. Both writes are conditioned on the state the
// caller read: the post's version and the id's position in the list. Either
// condition failing aborts the whole transaction with ErrConflict.
func (s *Store) DeletePost(ctx context.Context, post *domain.Post) error {
	creator, err := s.GetUser(ctx, post.Creator)
	if err != nil {
		return fmt.Errorf("resolve creator: %w", err)
	}

	idx := -1
	for i, id := range creator.Posts {
		if id == post.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		// The post record exists but the creator's list does not carry it:
		// state diverged mid-flight, let the caller retry from a fresh read.
		return fmt.Errorf("delete post %s: not in creator list: %w", post.ID, domain.ErrTransient)
	}

	_, err = s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Delete: &types.Delete{
					TableName:           aws.String(s.config.PostsTable),
					Key:                 s.postKey(post.ID),
					ConditionExpression: aws.String("#version = :expected_version"),
					ExpressionAttributeNames: map[string]string{
						"#version": "version",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":expected_version": &types.AttributeValueMemberN{Value: formatInt(post.Version)},
					},
				},
			},
			{
				Update: &types.Update{
					TableName:           aws.String(s.config.UsersTable),
					Key:                 s.userKey(post.Creator),
					UpdateExpression:    aws.String(fmt.Sprintf("REMOVE posts[%d] SET updated_at = :updated_at, #version = #version + :one", idx)),
					ConditionExpression: aws.String(fmt.Sprintf("posts[%d] = :post", idx)),
					ExpressionAttributeNames: map[string]string{
						"#version": "version",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":post":       &types.AttributeValueMemberS{Value: post.ID},
						":updated_at": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(timeFormat)},
						":one":        &types.AttributeValueMemberN{Value: "1"},
					},
				},
			},
		},
	})

	return translateTransaction("delete post", err, nil)
}

// SetHearts replaces the post's reaction set under the version observed by
// the caller's read.
func (s *Store) SetHearts(ctx context.Context, postID string, hearts []string, version int64) error {
	if hearts == nil {
		hearts = []string{}
	}
	heartsAttr, err := attributevalue.Marshal(hearts)
	if err != nil {
		return transient("marshal hearts", err)
	}

	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.config.PostsTable),
		Key:                 s.postKey(postID),
		UpdateExpression:    aws.String("SET hearts = :hearts, updated_at = :updated_at, #version = #version + :one"),
		ConditionExpression: aws.String("attribute_exists(id) AND #version = :expected_version"),
		ExpressionAttributeNames: map[string]string{
			"#version": "version",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":hearts":           heartsAttr,
			":updated_at":       &types.AttributeValueMemberS{Value: time.Now().UTC().Format(timeFormat)},
			":one":              &types.AttributeValueMemberN{Value: "1"},
			":expected_version": &types.AttributeValueMemberN{Value: formatInt(version)},
		},
	})
	return translateWrite("set hearts", err, domain.ErrConflict)
}
