package errors

import (
	"fmt"
	"strings"
)

// comparisonOperators lists the operators the grammar accepts.
var comparisonOperators = []string{">", "<", ">=", "<=", "==", "!="}

// SuggestOperator suggests a valid comparison operator for an unknown one.
func SuggestOperator(unknown string) string {
	switch unknown {
	case "=":
		return "Use '==' for equality"
	case "=>":
		return "Did you mean '>='?"
	case "=<":
		return "Did you mean '<='?"
	case "<>", "!":
		return "Use '!=' for inequality"
	}

	minDistance := 1000
	var bestMatch string
	for _, op := range comparisonOperators {
		dist := levenshteinDistance(unknown, op)
		if dist < minDistance {
			minDistance = dist
			bestMatch = op
		}
	}

	if minDistance <= 1 {
		return fmt.Sprintf("Did you mean '%s'?", bestMatch)
	}
	return fmt.Sprintf("Valid operators: %s", strings.Join(comparisonOperators, ", "))
}

// SuggestLogic suggests the canonical spelling for a logical keyword.
// It returns "" when word does not resemble AND or OR.
func SuggestLogic(word string) string {
	upper := strings.ToUpper(word)
	if upper == "AND" || upper == "OR" {
		if upper != word {
			return fmt.Sprintf("Logical operators are case-sensitive, use '%s'", upper)
		}
		return ""
	}
	switch word {
	case "&&", "&":
		return "Use 'AND' instead of '" + word + "'"
	case "||", "|":
		return "Use 'OR' instead of '" + word + "'"
	}
	return ""
}

// levenshteinDistance computes the Levenshtein distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}

	len1 := len(s1)
	len2 := len(s2)

	matrix := make([][]int, len1+1)
	for i := range matrix {
		matrix[i] = make([]int, len2+1)
	}

	for i := 0; i <= len1; i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len2; j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len1; i++ {
		for j := 1; j <= len2; j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}

			matrix[i][j] = min(
				matrix[i-1][j]+1,      // Deletion
				matrix[i][j-1]+1,      // Insertion
				matrix[i-1][j-1]+cost, // Substitution
			)
		}
	}

	return matrix[len1][len2]
}
