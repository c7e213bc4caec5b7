package mcpserver

// ThreadFormatContract describes the thread line grammar that LLM consumers
// should expect when reading the threads file.
const ThreadFormatContract = `# Thread Line Format

The threads file is plain Markdown. Any line matching the grammar below is a
thread; every other line is ignored by listing and completion.

## Grammar

` + "```" + `
- [ ] body text <!-- created: 2024-01-05T08:00:00 -->
- [x] body text <!-- created: 2024-01-05T08:00:00, cleared: 2024-01-09T17:30:00 -->
` + "```" + `

1. Leading and trailing whitespace is ignored.
2. The marker is ` + "`[ ]`" + ` for open and ` + "`[x]`" + ` for closed. Nothing else is accepted.
3. The body is free text up to an optional trailing HTML comment.
4. The comment holds comma-separated ` + "`key: value`" + ` pairs. Known keys are
   ` + "`created`" + ` and ` + "`cleared`" + `. Unknown keys are kept.
5. Timestamps are local wall-clock ISO-8601 without a zone:
   ` + "`YYYY-MM-DDTHH:MM:SS`" + `. Unparseable values are treated as absent.

## Operations

- **add_thread** appends ` + "`- [ ] <body> <!-- created: <now> -->`" + `.
- **complete_thread** addresses open threads by 0-based position in file
  order (not sort order), flips the marker to ` + "`x`" + ` and sets ` + "`cleared`" + `.
  Positions shift after every completion: re-list before completing again.
- **reorder_threads** rewrites the file as:

` + "```" + `
Open:
<open threads, newest created first>

Closed:
<closed threads, most recently cleared first>
` + "```" + `

  An empty section shows ` + "`  (none)`" + `. Lines that are not threads are removed
  and returned in the ` + "`dropped`" + ` list.
`
