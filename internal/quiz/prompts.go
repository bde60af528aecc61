package quiz

import "fmt"

// The prompts keep a rigid output contract (Question / Option A-D /
// Correct Answer / Explanation) because the parser depends on it.

func systemPrompt(category string) string {
	return fmt.Sprintf(`You are an expert neuroscience educator specializing in Brain Bee competition preparation. You have:
- 15+ years experience writing neuroscience competition questions
- Deep understanding of Brain Bee question patterns and difficulty levels
- Expertise in %s specifically

Your task: Create a challenging Brain Bee-style multiple choice question.

CRITICAL REQUIREMENTS:
1. Question must test deep understanding, not memorization
2. Include a realistic clinical or research scenario
3. All distractors must be plausible but clearly incorrect
4. Explanation should teach the underlying concept
5. Difficulty level: Advanced (suitable for Brain Bee finalists)

EXAMPLE FORMAT:
Question: A 45-year-old patient presents with difficulty recognizing familiar faces but can identify objects normally. MRI reveals damage to the right fusiform gyrus. This condition is most likely:
Options:
Option A: Prosopagnosia
Option B: Visual agnosia
Option C: Hemianopia
Option D: Balint syndrome
Correct Answer: A
Explanation: Prosopagnosia (face blindness) specifically affects face recognition while preserving object recognition. The fusiform gyrus contains the fusiform face area (FFA), which is specialized for face processing. Damage here causes selective face recognition deficits.

Now create a question about %s following this exact format.`, category, category)
}

func userPrompt(category, content string) string {
	if content == "" {
		return fmt.Sprintf(`Provide a difficult Brain Bee style question about %s asking about a hypothetical situation with four multiple-choice options. Include the correct answer and an explanation for the answer. Format your response EXACTLY as shown in the example above.`, category)
	}

	return fmt.Sprintf(`Based on the following neuroscience information about %s, create a Brain Bee question:

%s

Generate a question that:
- Tests application of knowledge, not just recall
- Includes a realistic scenario or case study
- Has exactly 4 plausible options (A, B, C, D)
- Provides a detailed explanation that teaches the concept
- Is at Brain Bee competition level difficulty

Format your response EXACTLY as shown in the example above.`, category, content)
}
