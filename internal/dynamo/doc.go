// Package dynamo implements the domain repositories on DynamoDB.
//
// Users and posts are plain records keyed by id with a version attribute for
// optimistic locking. Follow relationships are single edge records in a
// dedicated table keyed by (follower_id, followee_id); the followers view is
// a GSI keyed the other way around. Two-record mutations (creating or
// deleting a post together with the creator's post list) run through
// TransactWriteItems and commit all-or-nothing.
//
// Racing writers are resolved by condition expressions: a failed condition
// surfaces as domain.ErrConflict, cancellation reasons on transactions are
// mapped per item, and every other SDK failure is wrapped as
// domain.ErrTransient so no raw DynamoDB error crosses the boundary.
package dynamo
