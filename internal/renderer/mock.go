package renderer

import "context"

// Mock is an Adapter that returns a predefined story regardless of the
// prompt. It exists for tests and for running the service without LLM
// credentials.
type Mock struct{}

// Generate returns the canned story.
func (Mock) Generate(_ context.Context, _ string) (string, error) {
	return mockStory, nil
}

const mockStory = `Once upon a time, there was a little girl named Little Red Riding Hood. She was called that because she always wore a red hooded cloak that her grandmother had made for her.

One day, her mother asked her to take a basket of food to her grandmother, who lived in a cottage in the forest. The grandmother had been feeling ill, and the food would help her feel better.

As she walked along the path, she met a wolf. The wolf was cunning and wicked, and when he saw the little girl, he immediately began to think about how he could catch and eat her. He asked where she was going, and she told him about her grandmother's cottage beyond the old oak tree.

The wolf ran ahead to the cottage, swallowed the grandmother whole, and took her place in bed. When Little Red Riding Hood arrived, she was surprised by her grandmother's big eyes, big ears, and big teeth. "All the better to eat you with!" growled the wolf, and he swallowed her whole as well.

A hunter passing by heard loud snoring from the cottage and went in to check. Finding the wolf asleep in the grandmother's bed, he cut open its belly, and out jumped Little Red Riding Hood and her grandmother, both alive and well. They filled the wolf's belly with heavy stones, and when it woke and tried to run, it collapsed.

The hunter took the wolf's pelt, the grandmother enjoyed the food from the basket, and Little Red Riding Hood promised never to talk to strangers in the forest again.

And they all lived happily ever after.`
