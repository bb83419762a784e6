// Package issueparse turns community-submitted issue text into typed catalog
// records.
//
// Two text layouts are understood: the structured issue form, whose fields
// sit under "### Heading" lines, and the older markdown template with
// "**Label:**" fields. Each layout is described by a grammar, a table of
// independently optional field extractors, so a missing or malformed field
// never affects its neighbours. Only a missing title is an error.
package issueparse
