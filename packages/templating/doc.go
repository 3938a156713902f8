// Package templating expands placeholder templates against a message map.
// It uses valyala/fasttemplate with configurable delimiters (default "{{"
// and "}}") and resolves each tag through an env.Resolver, so every
// occurrence of a live key such as dynamic_uuid gets its own value.
//
// Unresolved tags are written back verbatim unless the Engine is strict, in
// which case expansion fails with ErrUnresolved.
package templating
