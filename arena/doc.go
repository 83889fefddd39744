// Package arena models the single memory region a firmware application has
// before any dynamic allocator exists.
//
// An Arena is sized once and never grows. Words are handed out with a bump
// pointer and released all at once with Reset. The interpreter's operand
// stack takes its backing storage from an Arena, so stack depth is bounded
// only by the region size.
package arena
