// Package reply holds the small acknowledgement bodies shared by the v1
// write endpoints. Their field names follow the shapes existing clients
// already parse.
package reply

// Inserted acknowledges a created document.
type Inserted struct {
	Acknowledged bool   `json:"acknowledged"         doc:"Whether the write was accepted" example:"true"`
	InsertedID   string `json:"insertedId,omitempty" doc:"Identifier of the new document" example:"Xk2m9QpLr4TnB7cVw1Za"`
}

// NewInserted acknowledges the document with the given id.
func NewInserted(id string) Inserted {
	return Inserted{Acknowledged: true, InsertedID: id}
}

// Message is a human-readable outcome.
type Message struct {
	Message string `json:"message" doc:"Outcome description" example:"state updated"`
}
