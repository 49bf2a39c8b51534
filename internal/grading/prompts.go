package grading

import "fmt"

func simulatePrompt(code string) string {
	return fmt.Sprintf(`You are a Python interpreter. Execute the following code and return only the exact console output it would produce.
If the code raises an error, return the traceback exactly as Python would print it.
Do not add explanations, markdown or commentary.

Code:
%s`, code)
}

func gradePrompt(code, task string) string {
	return fmt.Sprintf(`You are grading a beginner programming exercise.

Task:
%s

Student code:
%s

Mentally execute the code. Decide whether it satisfies the task.
Respond with JSON containing:
- isCorrect: true if the code fulfils the task, false otherwise
- output: the console output the code would produce
- feedback: one or two encouraging sentences explaining the verdict`, task, code)
}

func assistPrompt(lessonContent, question string) string {
	return fmt.Sprintf(`You are a friendly coding tutor helping a student with a lesson.
Answer the student's question in at most three short paragraphs. Prefer hints over full solutions.

Lesson content:
%s

Question:
%s`, lessonContent, question)
}
