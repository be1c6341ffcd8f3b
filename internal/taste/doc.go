// Package taste implements the taste-type quiz classifier and the per-user
// flavor profile that learns from reviews.
//
// The quiz maps a fixed set of two-choice answers onto four base archetypes,
// named two-way mixes of them, or the "gourmet" fallback. A profile is a
// six-dimension vector in [0,5] that is seeded from the quiz archetype, nudged
// by every review with an influence that shrinks as evidence accumulates, and
// blended (not overwritten) when the quiz is retaken.
//
// Everything here is pure computation on in-memory values. Callers own
// persistence and must serialize updates to the same profile.
package taste
