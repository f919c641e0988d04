package services

import "go.mongodb.org/mongo-driver/mongo/options"

// findAfter returns FindOneAndUpdate options set to return the
// post-update document.
func findAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}
