package core

import "fmt"

func questionPrompt(content string) string {
	return fmt.Sprintf("Generate a 1-line question from '%s' whose answer should not be too long nor too short. "+
		"The question should be generated such that the answer should be available in the provided content.", content)
}

func flashcardsPrompt(content string) string {
	return fmt.Sprintf("Generate 3 flashcards from this content: '%s'. "+
		"Each flashcard should consist of a term or concept and its brief explanation.", content)
}

func checkAnswerPrompt(content, question, answer string) string {
	return fmt.Sprintf("Given the content: '%s', and the question: '%s', check this answer given by the user: '%s'. "+
		"Reply as specified further in points ->\n"+
		"Check if the answer is correct or not in the context of only the above-given content and not anything else, "+
		"and tell if the given answer is correct or wrong.\n"+
		"If it is wrong, then explain the correct answer in detail but not too long.\n"+
		"Further list in subpoints:\n"+
		"Grammatical errors (mention 'none' if there are no errors)\n"+
		"Spelling mistakes (mention 'none' if there are no mistakes)\n"+
		"Scope of improvement (mention 'none' if there is nothing to improve)\n"+
		"Ensure that there are no asterisks or bold formatting in the response. Each point and subpoint should be on a new line.",
		content, question, answer)
}
