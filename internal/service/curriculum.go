package service

import "codeclass/internal/models"

// DefaultCurriculum returns the Python course loaded by SeedCurriculum.
// Lesson IDs sort in course order.
func DefaultCurriculum() []*models.Lesson {
	return []*models.Lesson{
		{
			ID:          "01-hello-world",
			Title:       "Hello, World!",
			Description: "Write and run your first Python program.",
			Difficulty:  models.Beginner,
			Topics:      []string{"print", "strings"},
			Content: `Every Python journey starts with print. The print function writes
whatever you give it to the console, followed by a new line.

    print("Hello, World!")

Text inside quotes is called a string. You can use single or double quotes.`,
			StarterCode:    "# Print a greeting below\n",
			Task:           "Print exactly the text: Hello, World!",
			ExpectedOutput: "Hello, World!",
			Quiz: []models.QuizQuestion{
				{ID: "q1", Question: "Which function writes text to the console?", Options: []string{"echo", "print", "write", "say"}, CorrectAnswer: 1},
				{ID: "q2", Question: "What is text inside quotes called?", Options: []string{"A number", "A boolean", "A string", "A list"}, CorrectAnswer: 2},
			},
		},
		{
			ID:          "02-variables",
			Title:       "Variables and Types",
			Description: "Store values in names and learn the basic types.",
			Difficulty:  models.Beginner,
			Topics:      []string{"variables", "int", "float", "str"},
			Content: `A variable is a name that refers to a value. Assign with =.

    age = 12
    price = 3.50
    name = "Ada"

Python works out the type for you: int, float and str are the most common.
Use type(x) to check what a value is.`,
			StarterCode:    "name = \"\"\nage = 0\n",
			Task:           "Create a variable called name holding any string and a variable called age holding an integer, then print them on one line separated by a space.",
			ExpectedOutput: "Ada 12",
			Quiz: []models.QuizQuestion{
				{ID: "q1", Question: "Which symbol assigns a value to a variable?", Options: []string{"==", "=", ":=", "->"}, CorrectAnswer: 1},
				{ID: "q2", Question: "What is the type of 3.5?", Options: []string{"int", "str", "float", "bool"}, CorrectAnswer: 2},
				{ID: "q3", Question: "Which call tells you the type of x?", Options: []string{"kind(x)", "type(x)", "typeof x", "x.type"}, CorrectAnswer: 1},
			},
		},
		{
			ID:          "03-conditionals",
			Title:       "Making Decisions",
			Description: "Use if, elif and else to branch.",
			Difficulty:  models.Beginner,
			Topics:      []string{"if", "comparison", "booleans"},
			Content: `Programs choose what to do with if statements.

    score = 75
    if score >= 70:
        print("Pass")
    else:
        print("Try again")

The indented block runs only when the condition is True.`,
			StarterCode:    "number = 7\n",
			Task:           "Given a variable number, print \"even\" if it is even and \"odd\" otherwise.",
			ExpectedOutput: "odd",
			Quiz: []models.QuizQuestion{
				{ID: "q1", Question: "Which operator checks equality?", Options: []string{"=", "==", "===", "!="}, CorrectAnswer: 1},
				{ID: "q2", Question: "What keyword adds another condition after if?", Options: []string{"elseif", "else if", "elif", "orif"}, CorrectAnswer: 2},
				{ID: "q3", Question: "What does 7 % 2 evaluate to?", Options: []string{"0", "1", "3", "3.5"}, CorrectAnswer: 1},
			},
		},
		{
			ID:          "04-loops",
			Title:       "Loops",
			Description: "Repeat work with for and while.",
			Difficulty:  models.Intermediate,
			Topics:      []string{"for", "while", "range"},
			Content: `A for loop runs once for every item in a sequence.

    for i in range(3):
        print(i)

range(3) produces 0, 1 and 2. A while loop keeps going as long as its
condition is True, so make sure something changes inside it.`,
			StarterCode:    "total = 0\n",
			Task:           "Use a loop to add up the numbers from 1 to 10 and print the total.",
			ExpectedOutput: "55",
			Quiz: []models.QuizQuestion{
				{ID: "q1", Question: "What numbers does range(3) produce?", Options: []string{"1, 2, 3", "0, 1, 2", "0, 1, 2, 3", "3"}, CorrectAnswer: 1},
				{ID: "q2", Question: "Which keyword leaves a loop early?", Options: []string{"stop", "exit", "break", "return"}, CorrectAnswer: 2},
				{ID: "q3", Question: "Which keyword skips to the next iteration?", Options: []string{"next", "continue", "skip", "pass"}, CorrectAnswer: 1},
				{ID: "q4", Question: "A while loop runs while its condition is...", Options: []string{"False", "None", "True", "Zero"}, CorrectAnswer: 2},
			},
		},
		{
			ID:          "05-functions",
			Title:       "Functions",
			Description: "Package code into reusable functions.",
			Difficulty:  models.Intermediate,
			Topics:      []string{"def", "parameters", "return"},
			Content: `Define a function with def. Parameters go in the parentheses and
return sends a value back to the caller.

    def greet(name):
        return "Hello, " + name

    print(greet("Grace"))`,
			StarterCode:    "def square(n):\n    pass\n",
			Task:           "Write a function square(n) that returns n multiplied by itself, then print square(9).",
			ExpectedOutput: "81",
			Quiz: []models.QuizQuestion{
				{ID: "q1", Question: "Which keyword defines a function?", Options: []string{"func", "function", "def", "fn"}, CorrectAnswer: 2},
				{ID: "q2", Question: "What does a function return without a return statement?", Options: []string{"0", "None", "False", "An error"}, CorrectAnswer: 1},
				{ID: "q3", Question: "Values passed into a function are called...", Options: []string{"arguments", "returns", "modules", "loops"}, CorrectAnswer: 0},
			},
		},
		{
			ID:          "06-lists-dicts",
			Title:       "Lists and Dictionaries",
			Description: "Work with collections of values.",
			Difficulty:  models.Advanced,
			Topics:      []string{"list", "dict", "comprehensions"},
			Content: `Lists keep items in order and dictionaries map keys to values.

    fruits = ["apple", "banana"]
    fruits.append("cherry")

    ages = {"ada": 36, "alan": 41}
    print(ages["ada"])

A list comprehension builds a new list in one line:

    squares = [n * n for n in range(5)]`,
			StarterCode:    "words = [\"code\", \"class\", \"python\"]\n",
			Task:           "Build a dictionary mapping each word in the list words to its length and print it.",
			ExpectedOutput: "{'code': 4, 'class': 5, 'python': 6}",
			Quiz: []models.QuizQuestion{
				{ID: "q1", Question: "Which method adds an item to the end of a list?", Options: []string{"add", "push", "append", "insert"}, CorrectAnswer: 2},
				{ID: "q2", Question: "How do you read the value for key k in dict d?", Options: []string{"d.k", "d[k]", "d(k)", "d->k"}, CorrectAnswer: 1},
				{ID: "q3", Question: "What is the index of the first list item?", Options: []string{"1", "0", "-1", "first"}, CorrectAnswer: 1},
				{ID: "q4", Question: "What does len([1, 2, 3]) return?", Options: []string{"2", "3", "4", "6"}, CorrectAnswer: 1},
				{ID: "q5", Question: "Which brackets create a dictionary?", Options: []string{"[]", "()", "{}", "<>"}, CorrectAnswer: 2},
			},
		},
	}
}
