package algorithms

// Default returns the built-in catalog.
func Default() *Catalog {
	return NewCatalog(builtin)
}

var builtin = []Algorithm{
	// Cross
	{ID: "cross-standard", Step: StepCross, Name: "White Cross - Standard", Notation: "F R U R' U' F'", Difficulty: 2, Level: "Beginner"},
	{ID: "cross-advanced", Step: StepCross, Name: "White Cross - Advanced", Notation: "R U R' U R U2 R'", Difficulty: 3, Level: "Intermediate"},
	{ID: "cross-edge-flip", Step: StepCross, Name: "Flipped Edge", Notation: "F' U' R U", Difficulty: 2, Level: "Beginner"},

	// F2L
	{ID: "f2l-1", Step: StepF2L, Name: "F2L Case 1", Notation: "U R U' R'", Difficulty: 2, Level: "Beginner"},
	{ID: "f2l-2", Step: StepF2L, Name: "F2L Case 2", Notation: "y' U' L' U L", Difficulty: 3, Level: "Intermediate"},
	{ID: "f2l-3", Step: StepF2L, Name: "F2L Case 3", Notation: "F R' F' R", Difficulty: 2, Level: "Beginner"},
	{ID: "f2l-4", Step: StepF2L, Name: "F2L Case 4", Notation: "R U R'", Difficulty: 1, Level: "Beginner"},

	// OLL
	{ID: "oll-21-sune", Step: StepOLL, Name: "OLL 21 - Sune", Notation: "R U R' U R U2 R'", Difficulty: 3, Level: "Intermediate"},
	{ID: "oll-22-antisune", Step: StepOLL, Name: "OLL 22 - Anti-Sune", Notation: "L' U' L U' L' U2 L", Difficulty: 3, Level: "Intermediate"},
	{ID: "oll-45", Step: StepOLL, Name: "OLL 45 - T Shape", Notation: "F R U R' U' F'", Difficulty: 2, Level: "Beginner"},
	{ID: "oll-44", Step: StepOLL, Name: "OLL 44 - P Shape", Notation: "f R U R' U' f'", Difficulty: 3, Level: "Intermediate"},

	// PLL
	{ID: "pll-aa", Step: StepPLL, Name: "PLL Aa", Notation: "x R' U R' D2 R U' R' D2 R2 x'", Difficulty: 4, Level: "Advanced"},
	{ID: "pll-ub", Step: StepPLL, Name: "PLL Ub", Notation: "M2 U M U2 M U M2", Difficulty: 4, Level: "Advanced"},
	{ID: "pll-t", Step: StepPLL, Name: "PLL T", Notation: "R U R' U' R' F R2 U' R' U' R U R' F'", Difficulty: 3, Level: "Intermediate"},
	{ID: "pll-h", Step: StepPLL, Name: "PLL H", Notation: "M2 U M2 U2 M2 U M2", Difficulty: 3, Level: "Intermediate"},
}
