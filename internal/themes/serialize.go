package themes

// Serialize converts a Result into a JSON-safe ordered document. Tables
// become lists of row objects (one object per row, columns as keys, row and
// column order preserved), labels become their string representation, and
// raw values pass through unchanged. Stage order is preserved.
//
// Serialize is pure and total: a well-formed Result always serializes. A Raw
// value holding something json.Marshal cannot encode is a caller contract
// violation and surfaces later, when the document is encoded for writing.
func Serialize(result *Result) *Object {
	doc := NewObject()
	for _, stage := range result.Stages {
		doc.Set(stage.Name, stage.Value.serialize())
	}
	return doc
}
