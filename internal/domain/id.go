package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// NewID returns a fresh identifier in ObjectID hex form.
// Both record stores use this format so identifiers stay portable.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ValidID reports whether id is a well-formed identifier
func ValidID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}
