package domain

// Chunk is a bounded slice of a source document's tokenized text.
// Ordinals are dense and zero-based within a source; TotalInSource is
// attached to every chunk once chunking of the document completes.
type Chunk struct {
	Text          string
	SourceID      string
	Ordinal       int
	TotalInSource int
	Extra         map[string]string
}

// ContextSnippet is one retrieved passage handed to the prompt assembler.
// Score is the cosine similarity for vector hits, or exactly 1.0 when the
// user selected the text themselves.
type ContextSnippet struct {
	Text        string  `json:"text"`
	Score       float64 `json:"score"`
	SourceLabel string  `json:"source"`
}

// ConversationTurn is one user/assistant exchange, supplied to the
// assembler in chronological order.
type ConversationTurn struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// Prompt is the assembled input for a language model: a system framing
// that already embeds the retrieved context, a bounded history window,
// and the live user message.
type Prompt struct {
	System  string
	History []ConversationTurn
	User    string
}

// VectorItem is a point to be written to the vector index.
type VectorItem struct {
	ID      string
	Vector  []float32
	Payload map[string]string
}

// VectorHit is one search result, ordered by descending similarity.
type VectorHit struct {
	Payload map[string]string
	Score   float64
}
