// Package builtin provides the functions callable from msgmap templates.
//
// Available functions:
//   - uuid(): Generate a random UUID v4
//   - now(): Current time in RFC 3339 (UTC)
//   - timestamp(): Current Unix timestamp in seconds
//   - timestampMs(): Current Unix timestamp in milliseconds
//   - date(layout): Current date, Go time layout (default 2006-01-02)
//   - random(min, max): Random integer in range
//   - randomString(length): Random alphanumeric string
//   - base64(value) / base64Decode(value)
//   - md5(value) / sha256(value): Hex digests
//   - urlEncode(value) / urlDecode(value)
//   - upper(value) / lower(value)
//
// Functions are invoked using the {{name(args)}} syntax in templates.
package builtin
