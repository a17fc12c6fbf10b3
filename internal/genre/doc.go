// Package genre scores how well a language model's genre guess agrees with
// the ground-truth labels stored for a movie.
//
// The model answers in free text ("Thriller, Action"); ParseIdentified turns
// that into a normalized Set. Ground-truth labels go through NewSet. Both
// sides are trimmed and lowercased the same way before any comparison, and
// tokens that are empty after trimming are dropped. Everything else is kept
// verbatim: multi-word phrases or words outside any known vocabulary simply
// fail to match.
//
// Evaluate is a pure function of its two inputs. The Result reports the
// intersection, whether the identified set is a subset of the ground truth
// (the "perfect match" verdict), and the three set sizes used by the bar
// chart in the CLI.
package genre
