package mcp

import "github.com/mark3labs/mcp-go/mcp"

var createToolDef = mcp.NewTool("string_create",
	mcp.WithDescription("Analyze a string and store it with its computed properties. Fails with ALREADY_EXISTS if the exact value is already stored."),
	mcp.WithString("value",
		mcp.Required(),
		mcp.Description("The string to analyze and store (non-empty, case-sensitive)"),
	),
)

var fetchToolDef = mcp.NewTool("string_fetch",
	mcp.WithDescription("Fetch a stored string and its properties by exact value."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("value",
		mcp.Required(),
		mcp.Description("The exact stored value"),
	),
)

var deleteToolDef = mcp.NewTool("string_delete",
	mcp.WithDescription("Permanently delete a stored string by exact value."),
	mcp.WithDestructiveHintAnnotation(true),
	mcp.WithString("value",
		mcp.Required(),
		mcp.Description("The exact stored value"),
	),
)

var listToolDef = mcp.NewTool("string_list",
	mcp.WithDescription("List stored strings in creation order. All filters are optional and combine with AND."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithBoolean("is_palindrome",
		mcp.Description("Only palindromes (true) or only non-palindromes (false). Case-insensitive comparison."),
	),
	mcp.WithNumber("min_length",
		mcp.Description("Minimum length in characters (inclusive)"),
	),
	mcp.WithNumber("max_length",
		mcp.Description("Maximum length in characters (inclusive)"),
	),
	mcp.WithNumber("word_count",
		mcp.Description("Exact number of whitespace-separated words"),
	),
	mcp.WithString("contains_character",
		mcp.Description("Substring the value must contain (case-sensitive)"),
	),
)

var queryToolDef = mcp.NewTool("string_query",
	mcp.WithDescription("Filter stored strings with a plain-English query, e.g. \"single word palindromic strings\", \"strings longer than 10 characters\", \"strings containing the letter z\"."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural-language filter"),
	),
)

var analyzeToolDef = mcp.NewTool("string_analyze",
	mcp.WithDescription("Compute the properties of a string without storing it."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("value",
		mcp.Required(),
		mcp.Description("The string to analyze"),
	),
)

var exportToolDef = mcp.NewTool("string_export",
	mcp.WithDescription("Export every stored string to a JSONL file."),
	mcp.WithString("path",
		mcp.Description("Destination .jsonl path (default: <home>/exports/sift-<timestamp>.jsonl)"),
	),
)

var importToolDef = mcp.NewTool("string_import",
	mcp.WithDescription("Import strings from a JSONL export. Properties are recomputed; values already stored are skipped."),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Source .jsonl path"),
	),
)
