package bank

import "iqscalar-assessment-service/internal/domain"

// Fallback returns the built-in bank used when a source cannot be read.
func Fallback(kind domain.BankKind) []domain.Question {
	var src []domain.Question
	switch kind {
	case domain.BankPractice:
		src = fallbackPractice
	default:
		src = fallbackTest
	}
	out := make([]domain.Question, len(src))
	for i, q := range src {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}

var fallbackTest = []domain.Question{
	{
		ID:           "fallback_1",
		Category:     "numerical_reasoning",
		Prompt:       "What is the missing number in the sequence: 2, 4, 6, 8, ?",
		Options:      []string{"9", "10", "12", "14"},
		CorrectIndex: 1,
		Explanation:  "The sequence increases by 2 each time.",
	},
	{
		ID:           "fallback_2",
		Category:     "logical_reasoning",
		Prompt:       "If all Bloops are Razzles and all Razzles are Lazzles, then all Bloops are definitely Lazzles.",
		Options:      []string{"True", "False", "Cannot be determined", "Sometimes true"},
		CorrectIndex: 0,
		Explanation:  "This is a logical syllogism.",
	},
	{
		ID:           "fallback_3",
		Category:     "numerical_reasoning",
		Prompt:       "Find the missing number: 5, 10, 15, ?, 25",
		Options:      []string{"16", "20", "18", "22"},
		CorrectIndex: 1,
		Explanation:  "The sequence increases by 5 each time.",
	},
	{
		ID:           "fallback_4",
		Category:     "logical_reasoning",
		Prompt:       "Which word doesn't belong: Apple, Orange, Banana, Carrot",
		Options:      []string{"Apple", "Orange", "Banana", "Carrot"},
		CorrectIndex: 3,
		Explanation:  "Carrot is a vegetable, while the others are fruits.",
	},
	{
		ID:           "fallback_5",
		Category:     "numerical_reasoning",
		Prompt:       "What comes next: 3, 6, 9, 12, ?",
		Options:      []string{"14", "15", "16", "18"},
		CorrectIndex: 1,
		Explanation:  "The sequence increases by 3 each time.",
	},
	{
		ID:           "fallback_6",
		Category:     "logical_reasoning",
		Prompt:       "Complete the analogy: Book is to Reading as Fork is to ?",
		Options:      []string{"Eating", "Cooking", "Kitchen", "Food"},
		CorrectIndex: 0,
		Explanation:  "A book is used for reading, a fork is used for eating.",
	},
	{
		ID:           "fallback_7",
		Category:     "numerical_reasoning",
		Prompt:       "Complete the series: 100, 90, 80, 70, ?",
		Options:      []string{"50", "60", "65", "55"},
		CorrectIndex: 1,
		Explanation:  "The sequence decreases by 10 each time.",
	},
	{
		ID:           "fallback_8",
		Category:     "logical_reasoning",
		Prompt:       "If RED = 27 and BLUE = 32, then GREEN = ?",
		Options:      []string{"55", "59", "52", "58"},
		CorrectIndex: 0,
		Explanation:  "Add the position of each letter in the alphabet.",
	},
	{
		ID:           "fallback_9",
		Category:     "numerical_reasoning",
		Prompt:       "Find the next number: 1, 4, 9, 16, ?",
		Options:      []string{"20", "25", "24", "30"},
		CorrectIndex: 1,
		Explanation:  "These are perfect squares: 1², 2², 3², 4², 5².",
	},
	{
		ID:           "fallback_10",
		Category:     "logical_reasoning",
		Prompt:       "Which figure completes the pattern?",
		Options:      []string{"Circle", "Square", "Triangle", "Star"},
		CorrectIndex: 2,
		Explanation:  "The pattern alternates between geometric shapes.",
	},
}

var fallbackPractice = []domain.Question{
	{
		ID:           "fallback_practice_1",
		Category:     "Verbal-Logical Reasoning",
		Prompt:       "Which word best completes the analogy: HAPPY is to SAD as JOY is to _______?",
		Options:      []string{"Sorrow", "Anger", "Fear", "Love", "Peace"},
		CorrectIndex: 0,
		Explanation:  "Happy and sad are opposites. Joy and sorrow are also opposites.",
	},
	{
		ID:           "fallback_practice_2",
		Category:     "Numerical & Abstract Reasoning",
		Prompt:       "What number comes next in the sequence: 2, 4, 8, 16, 32, ?",
		Options:      []string{"48", "56", "64", "72", "80"},
		CorrectIndex: 2,
		Explanation:  "Each number is multiplied by 2.",
	},
	{
		ID:           "fallback_practice_3",
		Category:     "Spatial Reasoning",
		Prompt:       "If you have 5 different colored balls, how many different ways can you arrange them in a line?",
		Options:      []string{"25", "60", "120", "240", "360"},
		CorrectIndex: 2,
		Explanation:  "This is a permutation of 5 distinct items: 5! = 120.",
	},
}
