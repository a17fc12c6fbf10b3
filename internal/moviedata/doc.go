// Package moviedata loads the CMU Movie Summary corpus and chooses movies for
// evaluation.
//
// Two files from the corpus are read: movie.metadata.tsv, which carries the
// title and the Freebase genre labels, and plot_summaries.txt, which maps the
// Wikipedia id to a plot summary. Rows that cannot be parsed are skipped and
// counted rather than failing the whole load.
//
// Movies without a genre column are kept in the catalog but are never
// eligible for evaluation. Fetch downloads and unpacks the corpus on demand,
// serializing concurrent downloads with a file lock.
package moviedata
