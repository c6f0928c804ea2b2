package constant

const (
	ChatMessageRoleUser   = "user"
	ChatMessageRoleModel  = "model"
	ChatMessageRoleSystem = "system"

	// Decorated-content markers. Messages carrying these prefixes are
	// UI notices persisted into the session log; they are excluded from
	// LLM context and from history summarization.
	DocumentNoticePrefix = "📄"
	ErrorNoticePrefix    = "❌"

	// Short user-visible reply when the primary answer call fails.
	// The turn is still recorded, marked so it never re-enters context.
	ChatFailureReply = ErrorNoticePrefix + " Sorry, something went wrong while generating the answer. Please try again."
)

const DefaultSystemPromptV1 = `You are a helpful AI assistant.
Use the earlier conversation in this session and what you know about the user to give accurate, useful answers.
Keep continuity with the conversation context, and say honestly when you do not know something.`

const DocumentQASystemPromptV1 = `You are a document analysis expert.
Answer the user's question based on the uploaded document and the earlier conversation in this session.
Structure your answer as:

## Answer
[the specific answer]

## Evidence
[the part of the document supporting the answer]

## Additional Notes
[related information or suggestions]

If the document does not contain the requested information, state "The document does not contain that information."`
