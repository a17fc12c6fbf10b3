package llm

import (
	"fmt"
	"strings"
)

// genrePromptTemplate is the instruction sent with every plot summary. The
// single-word rule keeps answers comparable with the corpus labels, though
// models do not always follow it.
const genrePromptTemplate = "Classify the following movie summary into genres: %s. " +
	"The genres should be one word, for example don't say Political Thriller, only Thriller. " +
	"Only list the genres, separated by commas. " +
	"Do not include any additional information or brackets."

// GenrePrompt renders the classification prompt for a plot summary.
func GenrePrompt(summary string) string {
	return fmt.Sprintf(genrePromptTemplate, strings.TrimSpace(summary))
}
