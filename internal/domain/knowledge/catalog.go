package knowledge

import (
	"sort"

	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/shared"
)

// Catalog is the static concept → difficulty → record mapping. It owns no
// mutable state: construct it once at startup and pass it by reference into
// the resolver. Lookup is a pure, total function; absence is a valid,
// expected outcome rather than a failure.
type Catalog struct {
	entries map[shared.ConceptType]map[shared.DifficultyLevel]ExplanationRecord
}

// NewCatalog builds a catalog from the given entries. The input map is copied
// so later mutation of the argument cannot leak into the catalog.
func NewCatalog(entries map[shared.ConceptType]map[shared.DifficultyLevel]ExplanationRecord) *Catalog {
	copied := make(map[shared.ConceptType]map[shared.DifficultyLevel]ExplanationRecord, len(entries))
	for concept, byDifficulty := range entries {
		inner := make(map[shared.DifficultyLevel]ExplanationRecord, len(byDifficulty))
		for difficulty, record := range byDifficulty {
			inner[difficulty] = record.clone()
		}
		copied[concept] = inner
	}
	return &Catalog{entries: copied}
}

// Lookup returns the record for the exact (concept, difficulty) pair.
// The boolean reports presence; a false result is not an error.
func (c *Catalog) Lookup(concept shared.ConceptType, difficulty shared.DifficultyLevel) (ExplanationRecord, bool) {
	byDifficulty, ok := c.entries[concept]
	if !ok {
		return ExplanationRecord{}, false
	}
	record, ok := byDifficulty[difficulty]
	if !ok {
		return ExplanationRecord{}, false
	}
	return record.clone(), true
}

// HasConcept reports whether the concept has any entry at any difficulty.
func (c *Catalog) HasConcept(concept shared.ConceptType) bool {
	return len(c.entries[concept]) > 0
}

// Difficulties returns the difficulties present for a concept, in ascending
// order of the beginner < intermediate < advanced total order.
func (c *Catalog) Difficulties(concept shared.ConceptType) []shared.DifficultyLevel {
	byDifficulty, ok := c.entries[concept]
	if !ok {
		return nil
	}
	out := make([]shared.DifficultyLevel, 0, len(byDifficulty))
	for difficulty := range byDifficulty {
		out = append(out, difficulty)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Rank() < out[j].Rank()
	})
	return out
}

// Concepts returns all concepts in the catalog, sorted for stable output.
func (c *Catalog) Concepts() []shared.ConceptType {
	out := make([]shared.ConceptType, 0, len(c.entries))
	for concept := range c.entries {
		out = append(out, concept)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i] < out[j]
	})
	return out
}

// Len returns the total number of (concept, difficulty) entries.
func (c *Catalog) Len() int {
	n := 0
	for _, byDifficulty := range c.entries {
		n += len(byDifficulty)
	}
	return n
}

// DefaultCatalog returns the built-in instructional content. Every supported
// concept has at least one difficulty entry; several concepts deliberately
// have partial coverage, which the resolver's nearest-difficulty fallback
// absorbs.
func DefaultCatalog() *Catalog {
	return NewCatalog(map[shared.ConceptType]map[shared.DifficultyLevel]ExplanationRecord{
		shared.ConceptAlgebra: {
			shared.DifficultyBeginner: {
				Explanation: "Algebra is the branch of mathematics dealing with symbols and the rules for manipulating them. A letter like x stands in for an unknown number, and equations describe how unknowns relate to values we already know.",
				KeyPoints: []string{
					"A variable is a symbol that stands for an unknown number",
					"An equation stays balanced: what you do to one side, do to the other",
					"Solving means isolating the variable on one side",
				},
				Examples: []string{
					"2x + 3 = 7 → subtract 3, divide by 2 → x = 2",
					"x - 5 = 9 → add 5 to both sides → x = 14",
				},
				PracticeProblems: []string{
					"Solve 3x + 1 = 10",
					"Solve x/4 = 6",
					"If y + 7 = 12, what is y?",
				},
			},
			shared.DifficultyIntermediate: {
				Explanation: "At the intermediate level algebra moves from single equations to functions and polynomials. Factoring, the distributive law, and function notation let you rewrite expressions into forms that expose their roots and structure.",
				KeyPoints: []string{
					"A function maps each input to exactly one output",
					"Factoring rewrites a polynomial as a product of simpler terms",
					"The roots of a polynomial are the inputs where it equals zero",
				},
				Examples: []string{
					"Factoring: x² + 5x + 6 = (x + 2)(x + 3)",
					"Function notation: f(x) = x² + 2x + 1, so f(2) = 9",
					"Linear graph: y = mx + b has slope m and intercept b",
				},
				PracticeProblems: []string{
					"Factor x² + 7x + 12",
					"Find the roots of x² - 5x + 6 = 0",
					"Given f(x) = 2x - 3, solve f(x) = 11",
				},
			},
			shared.DifficultyAdvanced: {
				Explanation: "Advanced algebra studies the structure behind equation-solving: polynomial division, the fundamental theorem of algebra, and systems of equations treated as matrix transformations. The emphasis shifts from finding answers to characterizing all solutions.",
				KeyPoints: []string{
					"A degree-n polynomial has exactly n complex roots, counted with multiplicity",
					"Polynomial long division mirrors integer division with a remainder term",
					"A linear system corresponds to a matrix equation Ax = b",
				},
				Examples: []string{
					"x³ - 1 = (x - 1)(x² + x + 1): one real root, two complex",
					"Dividing x³ + 2x² - 5 by x - 1 leaves remainder -2",
					"The system {x + y = 3, x - y = 1} is [[1,1],[1,-1]]·[x,y] = [3,1]",
				},
				PracticeProblems: []string{
					"Divide x⁴ - 16 by x² + 4",
					"Find all complex roots of x² + 4x + 13 = 0",
					"Solve the system 2x + y = 7, x - 3y = -7 by substitution",
				},
			},
		},
		shared.ConceptCalculus: {
			shared.DifficultyBeginner: {
				Explanation: "Calculus is the mathematical study of continuous change. Its central idea is the limit: by looking at what happens as quantities get arbitrarily close to a value, we can talk precisely about instantaneous speed and area under a curve.",
				KeyPoints: []string{
					"A limit describes the value a function approaches",
					"The derivative measures instantaneous rate of change",
					"The integral accumulates quantities, like area under a curve",
				},
				Examples: []string{
					"The slope of y = x² at x = 1 is 2",
					"Speed is the derivative of distance with respect to time",
				},
				PracticeProblems: []string{
					"Estimate the slope of y = x² at x = 3 using nearby points",
					"If a car's position is p(t) = 5t, what is its speed?",
				},
			},
			shared.DifficultyIntermediate: {
				Explanation: "Calculus has two main branches: differentiation (rates of change) and integration (accumulation), linked by the fundamental theorem. The standard rules — power, product, chain — reduce most derivatives to mechanical steps.",
				KeyPoints: []string{
					"Power rule: d/dx(xⁿ) = n·xⁿ⁻¹",
					"The chain rule differentiates compositions of functions",
					"The fundamental theorem connects derivatives and integrals as inverse operations",
				},
				Examples: []string{
					"d/dx(x²) = 2x",
					"∫x dx = x²/2 + C",
					"d/dx(sin(x²)) = 2x·cos(x²) by the chain rule",
				},
				PracticeProblems: []string{
					"Differentiate f(x) = 3x⁴ - 2x + 7",
					"Compute ∫(2x + 1) dx",
					"Find the slope of y = e^x at x = 0",
				},
			},
			shared.DifficultyAdvanced: {
				Explanation: "Advanced calculus treats limits with full ε-δ rigor, extends differentiation and integration to several variables, and studies convergence of infinite series. Taylor expansions connect local derivative information to global function behavior.",
				KeyPoints: []string{
					"The ε-δ definition makes limits precise",
					"Partial derivatives measure change along one axis of a multivariable function",
					"A Taylor series rebuilds a function from its derivatives at a point",
				},
				Examples: []string{
					"e^x = Σ xⁿ/n! converges for all real x",
					"∂/∂x(x²y + y³) = 2xy",
					"∫₀^∞ e^(-x²) dx = √π/2",
				},
				PracticeProblems: []string{
					"Prove lim(x→2) 3x = 6 from the ε-δ definition",
					"Find the second-order Taylor polynomial of cos(x) around 0",
					"Compute the gradient of f(x, y) = x²y - xy²",
				},
			},
		},
		shared.ConceptGeometry: {
			shared.DifficultyBeginner: {
				Explanation: "Geometry is the study of shapes and the space they occupy. Starting from points, lines, and angles, it builds up rules for lengths, areas, and the relationships between figures.",
				KeyPoints: []string{
					"Angles in a triangle sum to 180 degrees",
					"Area measures the surface a flat shape covers",
					"Congruent shapes have identical size and form",
				},
				Examples: []string{
					"Area of a circle = πr²",
					"Pythagorean theorem: a² + b² = c² for right triangles",
				},
				PracticeProblems: []string{
					"Find the hypotenuse of a right triangle with legs 3 and 4",
					"Compute the area of a circle with radius 5",
				},
			},
			shared.DifficultyIntermediate: {
				Explanation: "Intermediate geometry introduces coordinates and vectors, turning shapes into equations. Distance formulas, similarity, and trigonometric ratios let you compute unknown lengths and angles instead of measuring them.",
				KeyPoints: []string{
					"The distance between points comes from the Pythagorean theorem",
					"Similar triangles have proportional sides",
					"A vector carries both length and direction",
				},
				Examples: []string{
					"Distance from (0,0) to (3,4) is √(3² + 4²) = 5",
					"sin(30°) = 1/2, so a 30° ramp of length 10 rises 5",
					"The circle x² + y² = 25 has radius 5",
				},
				PracticeProblems: []string{
					"Find the midpoint of (2, 3) and (8, 11)",
					"Two similar triangles have sides 3:5; the smaller's base is 9 — find the larger's",
					"Compute the dot product of (1, 2) and (3, -1)",
				},
			},
			// No advanced entry: nearest-difficulty fallback serves advanced
			// requests with the intermediate record.
		},
		shared.ConceptPython: {
			shared.DifficultyBeginner: {
				Explanation: "Python is a versatile, high-level programming language known for its readability. Programs are built from variables, conditional statements, and loops, with indentation marking structure instead of braces.",
				KeyPoints: []string{
					"Variables are created by assignment, no declaration needed",
					"Indentation defines blocks",
					"for loops iterate directly over sequences",
				},
				Examples: []string{
					"for i in range(10): print(i)",
					"name = \"Ada\"; print(f\"Hello, {name}\")",
				},
				PracticeProblems: []string{
					"Write a loop that prints the numbers 1 through 20",
					"Write a program that prints \"even\" or \"odd\" for a given number",
				},
			},
			shared.DifficultyIntermediate: {
				Explanation: "Intermediate Python is about structuring programs: functions with default and keyword arguments, list comprehensions, dictionaries, and exception handling. Idiomatic Python favors comprehensions and built-ins over manual index loops.",
				KeyPoints: []string{
					"Functions are first-class values and can be passed around",
					"List comprehensions build lists in a single expression",
					"try/except separates the happy path from error handling",
				},
				Examples: []string{
					"def greet(name): return f'Hello, {name}'",
					"squares = [x**2 for x in range(10)]",
					"counts = {}; counts[word] = counts.get(word, 0) + 1",
				},
				PracticeProblems: []string{
					"Write a function that returns the n-th Fibonacci number",
					"Use a comprehension to collect the even numbers from a list",
					"Parse a line of comma-separated integers, skipping invalid entries",
				},
			},
			shared.DifficultyAdvanced: {
				Explanation: "Advanced Python covers the object model and metaprogramming: classes, decorators, generators, and context managers. These features all build on the same idea — functions and classes are objects you can wrap, inspect, and generate at runtime.",
				KeyPoints: []string{
					"A decorator wraps a function to extend its behavior",
					"Generators produce values lazily with yield",
					"Context managers pair setup with guaranteed teardown",
				},
				Examples: []string{
					"@lru_cache on a recursive function memoizes it",
					"def countdown(n):\n    while n: yield n; n -= 1",
					"with open(path) as f: closes the file even on error",
				},
				PracticeProblems: []string{
					"Write a decorator that times a function call",
					"Implement a generator yielding primes indefinitely",
					"Write a context manager that temporarily changes the working directory",
				},
			},
		},
		shared.ConceptJavaScript: {
			shared.DifficultyBeginner: {
				Explanation: "JavaScript is the programming language of the web. It runs in every browser and drives page interactivity: reacting to clicks, changing content, and validating input. Its basic building blocks are variables, functions, and events.",
				KeyPoints: []string{
					"let and const declare variables; const cannot be reassigned",
					"Functions respond to events like clicks and key presses",
					"The DOM is the page structure your code reads and changes",
				},
				Examples: []string{
					"const greeting = 'Hello'; console.log(greeting)",
					"button.addEventListener('click', () => alert('clicked'))",
				},
				PracticeProblems: []string{
					"Write a function that doubles every number in an array",
					"Make a button that toggles a paragraph's visibility",
				},
			},
			// Intermediate and advanced content pending curation; fallback
			// serves those requests from the beginner record.
		},
		shared.ConceptDataStructures: {
			shared.DifficultyBeginner: {
				Explanation: "Data structures are ways to organize and store data so programs can use it efficiently. Arrays keep items in a row you can index; dictionaries (hash tables) let you jump straight to a value by its key.",
				KeyPoints: []string{
					"Arrays give constant-time access by position",
					"Hash tables give near constant-time access by key",
					"Choosing a structure is choosing which operations are cheap",
				},
				Examples: []string{
					"list = [1, 2, 3] — the third item is list[2]",
					"dict = {'key': 'value'} — lookup by name, not position",
				},
				PracticeProblems: []string{
					"Store a week of temperatures and find the maximum",
					"Count word frequencies in a sentence with a dictionary",
				},
			},
			shared.DifficultyIntermediate: {
				Explanation: "Beyond arrays and maps sit linked structures: linked lists, stacks, queues, and trees. Each trades some operation costs for others — a linked list inserts in constant time but loses random access; a balanced tree keeps everything logarithmic.",
				KeyPoints: []string{
					"A linked list node holds a value and a pointer to the next node",
					"Stacks are last-in-first-out; queues are first-in-first-out",
					"Binary search trees keep keys ordered for O(log n) operations",
				},
				Examples: []string{
					"Browser history back-button behavior is a stack",
					"A printer job queue is a FIFO queue",
					"Inserting 5, 3, 8 into a BST puts 3 left and 8 right of the root",
				},
				PracticeProblems: []string{
					"Implement a stack with push, pop, and peek",
					"Reverse a singly linked list",
					"Write in-order traversal of a binary tree",
				},
			},
			shared.DifficultyAdvanced: {
				Explanation: "Advanced study covers graphs, heaps, and self-balancing trees, plus amortized analysis of their operations. Graphs model arbitrary relationships; heaps give constant-time access to the extremum; balancing guarantees worst-case logarithmic bounds.",
				KeyPoints: []string{
					"A graph is vertices plus edges, stored as lists or a matrix",
					"A binary heap keeps the minimum (or maximum) at the root",
					"AVL and red-black trees rebalance on insert to stay O(log n)",
				},
				Examples: []string{
					"A social network is a graph of user vertices and friendship edges",
					"A priority queue backed by a heap pops the smallest in O(log n)",
					"A skip list reaches O(log n) search with randomized levels",
				},
				PracticeProblems: []string{
					"Implement adjacency-list storage and breadth-first traversal",
					"Build a min-heap and use it to sort an array",
					"Show the rotations when inserting 1, 2, 3 into an AVL tree",
				},
			},
		},
		shared.ConceptAlgorithms: {
			shared.DifficultyIntermediate: {
				Explanation: "Algorithms are step-by-step procedures for solving problems, judged by how their cost grows with input size. Sorting and searching are the canonical examples: binary search halves the problem each step, and merge sort divides, solves, and recombines.",
				KeyPoints: []string{
					"Big-O notation describes growth of running time",
					"Binary search needs sorted input and runs in O(log n)",
					"Divide-and-conquer splits a problem into independent subproblems",
				},
				Examples: []string{
					"Binary search finds a name in a phone book in ~20 steps for a million entries",
					"Merge sort: split, sort halves, merge in O(n log n)",
					"Linear scan is O(n) — fine for small or unsorted data",
				},
				PracticeProblems: []string{
					"Implement binary search and count comparisons for n = 1000",
					"Trace merge sort on [5, 2, 9, 1, 6]",
					"Find the first duplicate in an array in O(n) time",
				},
			},
			shared.DifficultyAdvanced: {
				Explanation: "Advanced algorithm design turns to dynamic programming, greedy strategies, and graph algorithms. The craft is recognizing problem structure: overlapping subproblems suggest DP, exchange arguments justify greedy choices, and shortest paths reduce to Dijkstra's algorithm.",
				KeyPoints: []string{
					"Dynamic programming caches answers to overlapping subproblems",
					"A greedy algorithm is only correct when local choices preserve global optimality",
					"Dijkstra's algorithm computes shortest paths with non-negative weights",
				},
				Examples: []string{
					"Fibonacci via DP drops from exponential to linear time",
					"Interval scheduling: picking the earliest-finishing job is optimal",
					"Dijkstra with a heap runs in O((V + E) log V)",
				},
				PracticeProblems: []string{
					"Solve the 0/1 knapsack problem for 5 items with DP",
					"Prove the greedy coin-change fails for denominations {1, 3, 4}",
					"Compute shortest paths from one vertex in a weighted graph",
				},
			},
			// Beginner requests fall back to the intermediate record, the
			// closer (and lower-biased) of the two present tiers.
		},
		shared.ConceptStatistics: {
			shared.DifficultyBeginner: {
				Explanation: "Statistics is the science of collecting and summarizing data to draw conclusions. The three basic summaries — mean, median, and mode — each answer \"what is typical?\" in a different way, and spread tells you how much the data varies.",
				KeyPoints: []string{
					"The mean is the arithmetic average; the median is the middle value",
					"Outliers pull the mean but barely move the median",
					"Range and standard deviation measure spread",
				},
				Examples: []string{
					"Data 2, 3, 3, 10: mean 4.5, median 3, mode 3",
					"Salaries with one billionaire: median is the honest summary",
				},
				PracticeProblems: []string{
					"Compute mean and median of 4, 8, 6, 5, 3",
					"Give a dataset where mean and median differ by more than 10",
				},
			},
			shared.DifficultyIntermediate: {
				Explanation: "Intermediate statistics adds probability distributions and sampling. The normal distribution describes many natural measurements, and the central limit theorem explains why: averages of independent samples tend toward normality regardless of the source distribution.",
				KeyPoints: []string{
					"A distribution assigns probabilities to outcomes",
					"About 95% of normal data lies within two standard deviations",
					"Sample means converge to the population mean as samples grow",
				},
				Examples: []string{
					"Coin flips follow a binomial distribution",
					"Heights cluster normally around the population mean",
					"Polling 1000 people estimates a proportion within ~3 points",
				},
				PracticeProblems: []string{
					"What fraction of normal data lies beyond one standard deviation?",
					"Simulate 100 dice rolls and plot the distribution of the mean",
					"Explain why a sample of 10 can mislead where 1000 rarely does",
				},
			},
		},
	})
}
