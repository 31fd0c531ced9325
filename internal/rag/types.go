package rag

// NoResultsAnswer is returned when the store has no hits for a question.
const NoResultsAnswer = "I couldn't find any relevant information to answer your question."

// promptTemplate takes the assembled context and the question, in that order.
const promptTemplate = "Based on the following context, please answer the question. Be concise and accurate.\n\nContext:\n%s\n\nQuestion: %s\n\nAnswer:"

// truncationMarker is appended to context lines that were cut short.
const truncationMarker = "..."

// Hit is one retrieved chunk in score order, as seen by the context assembler.
type Hit struct {
	Page  int
	Text  string
	Score float32
}
