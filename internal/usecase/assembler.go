package usecase

import (
	"fmt"
	"strings"
	"text/template"

	"bookrag/internal/domain"
)

// DefaultHistoryWindow bounds how many past turns enter the prompt.
const DefaultHistoryWindow = 5

const systemTemplateText = `You are a helpful assistant for the book "{{.Title}}".

Your role is to answer questions about the book's content accurately and helpfully.

Context from the book:
{{.Context}}

Guidelines:
1. Answer based primarily on the provided context
2. If the context doesn't contain relevant information, say so honestly
3. Be concise but comprehensive
4. If the reader selected specific text, focus your answer on that selection`

var systemTemplate = template.Must(template.New("system").Parse(systemTemplateText))

// Assembler builds a bounded prompt from the fixed system framing, the
// retrieved context, a truncated history window, and the live message.
// It never reorders or deduplicates snippets or turns: context appears in
// rank order, history oldest-first within the window, the user message
// last. Order fidelity keeps prompts reproducible.
type Assembler struct {
	title  string
	window int
}

func NewAssembler(bookTitle string, historyWindow int) *Assembler {
	if historyWindow <= 0 {
		historyWindow = DefaultHistoryWindow
	}
	return &Assembler{title: bookTitle, window: historyWindow}
}

func (a *Assembler) Assemble(userMessage string, context []domain.ContextSnippet, history []domain.ConversationTurn) domain.Prompt {
	var ctxBlock strings.Builder
	if len(context) == 0 {
		ctxBlock.WriteString("(no relevant passages found)")
	}
	for i, snippet := range context {
		if i > 0 {
			ctxBlock.WriteString("\n\n")
		}
		fmt.Fprintf(&ctxBlock, "[Source: %s]\n%s", snippet.SourceLabel, snippet.Text)
	}

	var system strings.Builder
	data := struct {
		Title   string
		Context string
	}{Title: a.title, Context: ctxBlock.String()}
	if err := systemTemplate.Execute(&system, data); err != nil {
		// static template over plain strings; keep the prompt usable anyway
		system.Reset()
		system.WriteString(data.Context)
	}

	if len(history) > a.window {
		history = history[len(history)-a.window:]
	}

	return domain.Prompt{
		System:  system.String(),
		History: history,
		User:    userMessage,
	}
}
