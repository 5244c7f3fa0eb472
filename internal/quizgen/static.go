package quizgen

import (
	"context"
	"strings"
)

// DefaultTopic is served when a requested topic has no static set.
const DefaultTopic = "General Knowledge"

// StaticSource serves fixed, pre-validated question sets. It never fails.
type StaticSource struct {
	sets    map[string][]Candidate
	aliases map[string]string
}

// NewStaticSource returns a StaticSource over the built-in question bank.
func NewStaticSource() *StaticSource {
	return &StaticSource{
		sets: map[string][]Candidate{
			"General Knowledge": generalKnowledge,
			"Web Development":   webDevelopment,
			"React":             react,
			"Go":                golang,
		},
		aliases: map[string]string{
			"general knowledge": "General Knowledge",
			"general":           "General Knowledge",
			"gk":                "General Knowledge",
			"web development":   "Web Development",
			"web dev":           "Web Development",
			"web":               "Web Development",
			"react":             "React",
			"react.js":          "React",
			"reactjs":           "React",
			"go":                "Go",
			"golang":            "Go",
		},
	}
}

// Topics lists the topics that have a dedicated static set.
func (s *StaticSource) Topics() []string {
	return []string{"General Knowledge", "Web Development", "React", "Go"}
}

// Generate returns the set for input.Topic, or the general set for unknown
// topics. The same topic always yields the same questions.
func (s *StaticSource) Generate(_ context.Context, input GenerateInput) ([]Candidate, error) {
	name, ok := s.aliases[strings.ToLower(strings.TrimSpace(input.Topic))]
	if !ok {
		name = DefaultTopic
	}
	return cloneCandidates(s.sets[name]), nil
}

func cloneCandidates(in []Candidate) []Candidate {
	out := make([]Candidate, len(in))
	for i, c := range in {
		c.Options = append([]string(nil), c.Options...)
		out[i] = c
	}
	return out
}

func mcq(d Difficulty, subtopic, text, answer, explanation string, options ...string) Candidate {
	return Candidate{
		Text:          text,
		Options:       options,
		CorrectAnswer: answer,
		Explanation:   explanation,
		Subtopic:      subtopic,
		Difficulty:    d,
	}
}

var generalKnowledge = []Candidate{
	mcq(DifficultyEasy, "Geography", "What is the capital of France?", "Paris",
		"Paris has been the capital of France since the 10th century.",
		"Berlin", "Madrid", "Paris", "Rome"),
	mcq(DifficultyEasy, "Science", "Which planet is known as the Red Planet?", "Mars",
		"Iron oxide on its surface gives Mars its reddish color.",
		"Venus", "Mars", "Jupiter", "Saturn"),
	mcq(DifficultyEasy, "Science", "What is the chemical symbol for water?", "H2O",
		"A water molecule has two hydrogen atoms and one oxygen atom.",
		"H2O", "CO2", "O2", "NaCl"),
	mcq(DifficultyMedium, "Geography", "What is the largest ocean on Earth?", "Pacific Ocean",
		"The Pacific covers roughly a third of the planet's surface.",
		"Atlantic Ocean", "Indian Ocean", "Arctic Ocean", "Pacific Ocean"),
	mcq(DifficultyMedium, "Literature", "Who wrote 'Romeo and Juliet'?", "William Shakespeare",
		"Shakespeare wrote the tragedy in the 1590s.",
		"Charles Dickens", "William Shakespeare", "Jane Austen", "Mark Twain"),
	mcq(DifficultyEasy, "Mathematics", "How many sides does a hexagon have?", "6",
		"The prefix hexa- means six.",
		"5", "6", "7", "8"),
	mcq(DifficultyMedium, "History", "In which year did World War II end?", "1945",
		"Germany surrendered in May 1945 and Japan in September 1945.",
		"1939", "1944", "1945", "1950"),
	mcq(DifficultyMedium, "Science", "What gas do plants absorb from the atmosphere for photosynthesis?", "Carbon dioxide",
		"Plants take in carbon dioxide and release oxygen.",
		"Oxygen", "Nitrogen", "Carbon dioxide", "Helium"),
	mcq(DifficultyHard, "Science", "What is the hardest natural substance?", "Diamond",
		"Diamond scores 10 on the Mohs hardness scale.",
		"Gold", "Iron", "Diamond", "Quartz"),
	mcq(DifficultyHard, "Geography", "Which is the longest river in Africa?", "Nile",
		"The Nile runs about 6,650 km through northeastern Africa.",
		"Congo", "Niger", "Zambezi", "Nile"),
}

var webDevelopment = []Candidate{
	mcq(DifficultyEasy, "HTML", "What does HTML stand for?", "HyperText Markup Language",
		"HTML is the markup language for structuring web pages.",
		"HyperText Markup Language", "High Transfer Markup Language", "Hyperlink Text Management Language", "Home Tool Markup Language"),
	mcq(DifficultyEasy, "CSS", "Which CSS property changes the text color?", "color",
		"The color property sets the foreground color of text.",
		"font-color", "text-color", "color", "foreground"),
	mcq(DifficultyEasy, "HTTP", "Which HTTP status code means 'Not Found'?", "404",
		"404 indicates the server cannot find the requested resource.",
		"200", "301", "404", "500"),
	mcq(DifficultyMedium, "JavaScript", "Which keyword declares a block-scoped variable that cannot be reassigned?", "const",
		"const bindings are block-scoped and cannot be reassigned.",
		"var", "let", "const", "static"),
	mcq(DifficultyMedium, "HTTP", "Which HTTP method is idempotent and used to replace a resource?", "PUT",
		"PUT replaces the target resource and repeating it has the same effect.",
		"POST", "PUT", "PATCH", "CONNECT"),
	mcq(DifficultyMedium, "CSS", "Which CSS layout module is designed for two-dimensional layouts?", "Grid",
		"CSS Grid handles rows and columns together, Flexbox handles one axis.",
		"Flexbox", "Grid", "Float", "Table"),
	mcq(DifficultyMedium, "Security", "Which response header tells browsers which origins may read a response?", "Access-Control-Allow-Origin",
		"CORS uses Access-Control-Allow-Origin to whitelist origins.",
		"Content-Security-Policy", "Access-Control-Allow-Origin", "X-Frame-Options", "Strict-Transport-Security"),
	mcq(DifficultyHard, "JavaScript", "What does 'typeof null' evaluate to in JavaScript?", "\"object\"",
		"This is a long-standing quirk of the language.",
		"\"null\"", "\"undefined\"", "\"object\"", "\"number\""),
	mcq(DifficultyHard, "Performance", "Which attribute lets a script download in parallel and run after parsing finishes?", "defer",
		"Deferred scripts execute in order after the document is parsed.",
		"async", "defer", "lazy", "preload"),
	mcq(DifficultyHard, "Security", "Which cookie attribute prevents JavaScript from reading the cookie?", "HttpOnly",
		"HttpOnly cookies are not exposed to document.cookie.",
		"Secure", "SameSite", "HttpOnly", "Path"),
}

var react = []Candidate{
	mcq(DifficultyEasy, "React Hooks", "Which hook adds local state to a function component?", "useState",
		"useState returns the current value and a setter.",
		"useEffect", "useState", "useRef", "useMemo"),
	mcq(DifficultyEasy, "JSX", "What must wrap multiple sibling elements returned from a component?", "A single parent element or fragment",
		"A component returns one root, which may be a fragment.",
		"A single parent element or fragment", "A div with a key", "An array literal only", "Nothing"),
	mcq(DifficultyEasy, "Props", "How does a parent pass data to a child component?", "Props",
		"Props are the inputs a component receives from its parent.",
		"State", "Props", "Context only", "Refs"),
	mcq(DifficultyMedium, "React Hooks", "When does an effect with an empty dependency array run?", "Once after the first render",
		"An empty array means no dependencies change, so it runs after mount only.",
		"On every render", "Once after the first render", "Never", "Before the first render"),
	mcq(DifficultyMedium, "Lists", "Why should list items have a stable key prop?", "So React can match items between renders",
		"Keys let reconciliation track which items moved, changed or were removed.",
		"To style them", "So React can match items between renders", "To make them focusable", "It is required by HTML"),
	mcq(DifficultyMedium, "React Hooks", "Which hook memoizes a computed value between renders?", "useMemo",
		"useMemo recomputes only when its dependencies change.",
		"useCallback", "useMemo", "useReducer", "useId"),
	mcq(DifficultyMedium, "State Management", "Which hook is suited to complex state transitions driven by actions?", "useReducer",
		"useReducer applies a reducer function to dispatched actions.",
		"useState", "useReducer", "useContext", "useLayoutEffect"),
	mcq(DifficultyHard, "React Hooks", "Which rule must hooks follow?", "Call them at the top level of a component or custom hook",
		"Hooks rely on call order, so they cannot be conditional.",
		"Call them inside loops", "Call them at the top level of a component or custom hook", "Call them only in class components", "Call them inside event handlers"),
	mcq(DifficultyHard, "Rendering", "What does React.memo do?", "Skips re-rendering when props are shallowly equal",
		"React.memo compares props and reuses the last render if nothing changed.",
		"Caches API responses", "Skips re-rendering when props are shallowly equal", "Stores state in localStorage", "Memoizes hooks"),
	mcq(DifficultyHard, "Context", "What happens to consumers when a context provider's value changes?", "They re-render",
		"Every component reading that context re-renders with the new value.",
		"Nothing", "They re-render", "They unmount", "Only the provider re-renders"),
}

var golang = []Candidate{
	mcq(DifficultyEasy, "Basics", "Which keyword starts a goroutine?", "go",
		"The go statement runs a function call concurrently.",
		"async", "go", "spawn", "thread"),
	mcq(DifficultyEasy, "Basics", "What is the zero value of an int in Go?", "0",
		"Numeric types are zero-initialized.",
		"nil", "0", "undefined", "-1"),
	mcq(DifficultyEasy, "Tooling", "Which command formats Go source code?", "gofmt",
		"gofmt rewrites source in the canonical style.",
		"golint", "gofmt", "go vet", "go tidy"),
	mcq(DifficultyMedium, "Concurrency", "What happens when you send on a closed channel?", "It panics",
		"Sending on a closed channel is a runtime panic.",
		"It blocks forever", "It panics", "It is ignored", "It returns an error"),
	mcq(DifficultyMedium, "Error Handling", "Which function checks whether an error matches a target in its chain?", "errors.Is",
		"errors.Is walks the Unwrap chain comparing against the target.",
		"errors.Is", "errors.Equal", "errors.Match", "errors.Has"),
	mcq(DifficultyMedium, "Types", "What does a type need to satisfy an interface?", "All of the interface's methods",
		"Interfaces are satisfied implicitly by method sets.",
		"An implements clause", "All of the interface's methods", "Embedding the interface", "A constructor"),
	mcq(DifficultyMedium, "Concurrency", "Which type waits for a collection of goroutines to finish?", "sync.WaitGroup",
		"Add, Done and Wait coordinate completion.",
		"sync.Mutex", "sync.WaitGroup", "sync.Once", "sync.Cond"),
	mcq(DifficultyHard, "Slices", "What does append do when a slice has no spare capacity?", "Allocates a new backing array",
		"append grows the slice by copying into a larger array.",
		"Panics", "Allocates a new backing array", "Overwrites the first element", "Returns an error"),
	mcq(DifficultyHard, "Concurrency", "What does a select with a default case do when no channel is ready?", "Runs the default case immediately",
		"default makes select non-blocking.",
		"Blocks until a channel is ready", "Runs the default case immediately", "Panics", "Picks a random case"),
	mcq(DifficultyHard, "Context", "Which function derives a context that is cancelled after a duration?", "context.WithTimeout",
		"WithTimeout returns a context and cancel func bound to a deadline.",
		"context.WithValue", "context.Background", "context.WithTimeout", "context.TODO"),
}
