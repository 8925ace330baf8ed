// Package store holds the Mongo repositories for the catalog collections.
package store

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	CategoryCollection = "categories"
	ProductCollection  = "products"
	VendorCollection   = "vendors"
	UserCollection     = "users"
	InquiryCollection  = "inquiries"
)

// ErrNotFound is returned by single-document lookups that match nothing.
var ErrNotFound = errors.New("document not found")

// IsDuplicateKey reports whether err came from a unique index violation.
func IsDuplicateKey(err error) bool {
	return err != nil && mongo.IsDuplicateKeyError(err)
}

// IsUnavailable reports whether err means the database could not be reached
// in time. Such errors are not specific to one document. A cancelled caller
// context is not an outage.
func IsUnavailable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, mongo.ErrClientDisconnected) {
		return true
	}
	return mongo.IsNetworkError(err) || mongo.IsTimeout(err)
}

// deleted maps a delete that matched nothing to ErrNotFound.
func deleted(res *mongo.DeleteResult, err error) error {
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
