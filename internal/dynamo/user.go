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

// userRecord is the stored shape of a user.
type userRecord struct {
	ID             string   `dynamodbav:"id"`
	Name           string   `dynamodbav:"name"`
	Email          string   `dynamodbav:"email"`
	PasswordHash   string   `dynamodbav:"password_hash"`
	ProfilePicture string   `dynamodbav:"profile_picture"`
	CoverPicture   string   `dynamodbav:"cover_picture"`
	Description    string   `dynamodbav:"description"`
	Posts          []string `dynamodbav:"posts"`
	Version        int64    `dynamodbav:"version"`
	CreatedAt      string   `dynamodbav:"created_at"`
	UpdatedAt      string   `dynamodbav:"updated_at"`
}

func userToRecord(u *domain.User) userRecord {
	posts := u.Posts
	if posts == nil {
		posts = []string{}
	}
	return userRecord{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		PasswordHash:   u.PasswordHash,
		ProfilePicture: u.ProfilePicture,
		CoverPicture:   u.CoverPicture,
		Description:    u.Description,
		Posts:          posts,
		Version:        u.Version,
		CreatedAt:      u.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt:      u.UpdatedAt.UTC().Format(timeFormat),
	}
}

func (r userRecord) toDomain() *domain.User {
	posts := r.Posts
	if posts == nil {
		posts = []string{}
	}
	return &domain.User{
		ID:             r.ID,
		Name:           r.Name,
		Email:          r.Email,
		PasswordHash:   r.PasswordHash,
		ProfilePicture: r.ProfilePicture,
		CoverPicture:   r.CoverPicture,
		Description:    r.Description,
		Posts:          posts,
		Version:        r.Version,
		CreatedAt:      parseTime(r.CreatedAt),
		UpdatedAt:      parseTime(r.UpdatedAt),
	}
}

// emailPK builds the partition key of an email-uniqueness claim.
func emailPK(email string) string {
	return "email#" + email
}

func (s *Store) userKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

// GetUser retrieves a user by id with a strongly consistent read.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.config.UsersTable),
		Key:            s.userKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, transient("get user", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("get user %s: %w", id, domain.ErrNotFound)
	}

	var rec userRecord
	if err := attributevalue.UnmarshalMap(result.Item, &rec); err != nil {
		return nil, transient("unmarshal user", err)
	}
	return rec.toDomain(), nil
}

// CreateUser inserts the user record and claims its email in one
// transaction. A reused email (or id) fails the whole transaction with
// ErrAlreadyExists.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	rec := userToRecord(user)
	if rec.Version == 0 {
		rec.Version = 1
	}
	if rec.UpdatedAt == "" || user.UpdatedAt.IsZero() {
		rec.UpdatedAt = rec.CreatedAt
	}
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return transient("marshal user", err)
	}

	_, err = s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName: aws.String(s.config.EmailTable),
					Item: map[string]types.AttributeValue{
						"pk":      &types.AttributeValueMemberS{Value: emailPK(user.Email)},
						"user_id": &types.AttributeValueMemberS{Value: user.ID},
					},
					ConditionExpression: aws.String("attribute_not_exists(pk)"),
				},
			},
			{
				Put: &types.Put{
					TableName:           aws.String(s.config.UsersTable),
					Item:                item,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
		},
	})

	return translateTransaction("create user", err, map[int]error{
		0: domain.ErrAlreadyExists,
		1: domain.ErrAlreadyExists,
	})
}

// UserIDByEmail resolves a registered email to its user id.
func (s *Store) UserIDByEmail(ctx context.Context, email string) (string, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.config.EmailTable),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: emailPK(email)},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return "", transient("lookup email", err)
	}
	if result.Item == nil {
		return "", fmt.Errorf("lookup email: %w", domain.ErrNotFound)
	}

	v, ok := result.Item["user_id"].(*types.AttributeValueMemberS)
	if !ok {
		return "", transient("lookup email", fmt.Errorf("malformed claim for %s", emailPK(email)))
	}
	return v.Value, nil
}

// UpdateUserDescription replaces the description under the version observed
// by the caller's read.
func (s *Store) UpdateUserDescription(ctx context.Context, id, description string, version int64) error {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.config.UsersTable),
		Key:                 s.userKey(id),
		UpdateExpression:    aws.String("SET description = :description, updated_at = :updated_at, #version = #version + :one"),
		ConditionExpression: aws.String("attribute_exists(id) AND #version = :expected_version"),
		ExpressionAttributeNames: map[string]string{
			"#version": "version",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":description":      &types.AttributeValueMemberS{Value: description},
			":updated_at":       &types.AttributeValueMemberS{Value: time.Now().UTC().Format(timeFormat)},
			":one":              &types.AttributeValueMemberN{Value: "1"},
			":expected_version": &types.AttributeValueMemberN{Value: formatInt(version)},
		},
	})
	return translateWrite("update user description", err, domain.ErrConflict)
}

// SearchUsersByName returns users whose name matches exactly.
func (s *Store) SearchUsersByName(ctx context.Context, name string) ([]domain.User, error) {
	var users []domain.User
	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName:        aws.String(s.config.UsersTable),
		FilterExpression: aws.String("#name = :name"),
		ExpressionAttributeNames: map[string]string{
			"#name": "name",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":name": &types.AttributeValueMemberS{Value: name},
		},
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, transient("search users", err)
		}
		for _, raw := range page.Items {
			var rec userRecord
			if err := attributevalue.UnmarshalMap(raw, &rec); err != nil {
				return nil, transient("unmarshal user", err)
			}
			users = append(users, *rec.toDomain())
		}
	}
	return users, nil
}
