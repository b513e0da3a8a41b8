package planner

import "strings"

// MacroSplit is a percentage split of daily energy between macronutrients
type MacroSplit struct {
	Protein int `json:"protein"`
	Carbs   int `json:"carbs"`
	Fat     int `json:"fat"`
}

// Total returns the sum of the percentages
func (m MacroSplit) Total() int {
	return m.Protein + m.Carbs + m.Fat
}

// Macros picks a macro split from goal keywords and adjusts it for the diet.
// The percentages always total 100.
func Macros(goal, diet string) MacroSplit {
	g := strings.ToLower(goal)

	var m MacroSplit
	switch {
	case containsAny(g, "muscle", "strength", "bulk", "mass", "power"):
		m = MacroSplit{Protein: 30, Carbs: 45, Fat: 25}
	case containsAny(g, "fat loss", "weight loss", "lose", "lean", "cut"):
		m = MacroSplit{Protein: 35, Carbs: 35, Fat: 30}
	case containsAny(g, "stamina", "endurance", "aerobic", "marathon", "conditioning"):
		m = MacroSplit{Protein: 20, Carbs: 60, Fat: 20}
	case containsAny(g, "recovery", "rehab", "injury"):
		m = MacroSplit{Protein: 30, Carbs: 40, Fat: 30}
	default:
		m = MacroSplit{Protein: 25, Carbs: 50, Fat: 25}
	}

	switch diet {
	case "Keto":
		m = MacroSplit{Protein: 25, Carbs: 5, Fat: 70}
	case "Vegan", "Vegetarian":
		// plant-based: move 5% from protein to carbs
		m.Protein -= 5
		m.Carbs += 5
	}
	return m
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
