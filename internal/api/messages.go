package api

import "github.com/sashabaranov/go-openai"

// SystemMessage builds a system-role message.
func SystemMessage(content string) openai.ChatCompletionMessage {
	return openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: content,
	}
}

// UserMessage builds a user-role text message.
func UserMessage(content string) openai.ChatCompletionMessage {
	return openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: content,
	}
}

// AssistantMessage builds an assistant-role message.
func AssistantMessage(content string) openai.ChatCompletionMessage {
	return openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleAssistant,
		Content: content,
	}
}

// ImageMessage builds a multipart user message carrying text plus an inlined
// image for vision models. An empty data URI degrades to a plain text message.
func ImageMessage(text, imageDataURI string) openai.ChatCompletionMessage {
	if imageDataURI == "" {
		return UserMessage(text)
	}
	return openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser,
		MultiContent: []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: text},
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL: imageDataURI,
				},
			},
		},
	}
}
