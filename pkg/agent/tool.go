package agent

// Tool represents a function that the conversational model can invoke
// mid-dialogue. Tools are how a demo agent acts on the world: searching
// a catalog, placing an order, logging a check-in.
type Tool struct {
	// Name is the unique identifier for the tool (e.g., "search_catalog").
	Name string `json:"name"`

	// Description explains what the tool does, helping the model decide
	// when to use it.
	Description string `json:"description"`

	// Parameters defines the JSON schema for the tool's arguments.
	// Example:
	//   map[string]any{
	//       "query": map[string]any{
	//           "type":        "string",
	//           "description": "Search keyword",
	//       },
	//   }
	Parameters map[string]any `json:"parameters"`

	// Handler is called when the model invokes this tool.
	// It receives the parsed arguments and returns a result string or error.
	// The result is relayed back into the conversation.
	Handler func(args map[string]any) (string, error) `json:"-"`
}

// ToolCall represents an invocation of a tool by the model.
type ToolCall struct {
	// ID is the unique identifier for this tool call.
	// Used to match results back to the correct call.
	ID string

	// Name is the tool being invoked.
	Name string

	// Arguments contains the parsed arguments from the model.
	Arguments map[string]any
}

// ToolResult represents the result of a tool invocation.
type ToolResult struct {
	// CallID matches the ToolCall.ID this result corresponds to.
	CallID string

	// Result is the string result to relay back into the conversation.
	Result string

	// Error is set if the tool execution failed.
	Error error
}

// StringArg extracts a string argument, returning "" when absent or of
// the wrong type. Tool handlers use this instead of bare type asserts
// because models occasionally omit or mistype arguments.
func StringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

// IntArg extracts an integer argument. JSON numbers arrive as float64,
// so both forms are accepted. Returns def when absent or unparsable.
func IntArg(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}
