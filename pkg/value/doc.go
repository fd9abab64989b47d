// Package value defines the dynamic data model shared by every stage of the
// generation pipeline: schema input, variable tables, function arguments and
// results, and the emitted document.
//
// Seven kinds appear in documents: null, bool, int, float, string, list and
// map. Int and Float are distinct kinds so numeric behavior (division,
// casting, repeat counts) follows the source notation exactly. Two further
// kinds never reach output: Absent marks values the vanisher removes before
// serialization, and Func wraps an invocable function. Maps preserve key
// insertion order end-to-end.
//
// The Golden Rule: pkg/value imports only the codec libraries and stdlib.
// Every other package depends on value, not the reverse.
package value
