package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Family 模型請求/響應格式族群
type Family int

const (
	// FamilyTitan amazon.titan-text-* 系列：inputText + textGenerationConfig
	FamilyTitan Family = iota
	// FamilyMessages 其餘模型（Anthropic messages 格式）
	FamilyMessages
)

// messagesVersion Bedrock 上 Anthropic messages API 的版本標記
const messagesVersion = "bedrock-2023-05-31"

// titanTopP Titan 請求固定使用的 topP
const titanTopP = 0.9

func (f Family) String() string {
	switch f {
	case FamilyTitan:
		return "titan-text"
	case FamilyMessages:
		return "messages"
	default:
		return fmt.Sprintf("family(%d)", int(f))
	}
}

// DetectFamily 依模型 ID 判斷族群，含區域前綴的推論設定檔 ID 也適用
func DetectFamily(modelID string) Family {
	if strings.Contains(strings.ToLower(modelID), "titan-text") {
		return FamilyTitan
	}
	return FamilyMessages
}

type titanRequest struct {
	InputText            string      `json:"inputText"`
	TextGenerationConfig titanConfig `json:"textGenerationConfig"`
}

type titanConfig struct {
	MaxTokenCount int      `json:"maxTokenCount"`
	Temperature   float64  `json:"temperature"`
	TopP          float64  `json:"topP"`
	StopSequences []string `json:"stopSequences"`
}

type titanResponse struct {
	Results []struct {
		OutputText string `json:"outputText"`
	} `json:"results"`
}

type messagesRequest struct {
	AnthropicVersion string    `json:"anthropic_version"`
	MaxTokens        int       `json:"max_tokens"`
	Temperature      float64   `json:"temperature"`
	Messages         []message `json:"messages"`
}

type message struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type messagesResponse struct {
	Output  json.RawMessage `json:"output"`
	Content json.RawMessage `json:"content"`
}

// buildRequest 依族群組裝請求體
func buildRequest(f Family, prompt string, maxTokens int, temperature float64) ([]byte, error) {
	switch f {
	case FamilyTitan:
		return json.Marshal(titanRequest{
			InputText: prompt,
			TextGenerationConfig: titanConfig{
				MaxTokenCount: maxTokens,
				Temperature:   temperature,
				TopP:          titanTopP,
				StopSequences: []string{},
			},
		})
	default:
		return json.Marshal(messagesRequest{
			AnthropicVersion: messagesVersion,
			MaxTokens:        maxTokens,
			Temperature:      temperature,
			Messages: []message{
				{
					Role:    "user",
					Content: []contentPart{{Type: "text", Text: prompt}},
				},
			},
		})
	}
}

// parseResponse 依族群從響應體取出文字
func parseResponse(f Family, body []byte) (string, error) {
	switch f {
	case FamilyTitan:
		var resp titanResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("failed to decode titan response: %w", err)
		}
		if len(resp.Results) == 0 {
			return "", nil
		}
		return resp.Results[0].OutputText, nil
	default:
		var resp messagesResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("failed to decode messages response: %w", err)
		}
		parts := outputContent(resp.Output)
		if len(parts) == 0 {
			parts = contentParts(resp.Content)
		}
		texts := make([]string, 0, len(parts))
		for _, p := range parts {
			if p.Type == "text" && p.Text != "" {
				texts = append(texts, p.Text)
			}
		}
		return strings.Join(texts, "\n"), nil
	}
}

// outputContent 讀取 output.content；output 不是物件時視為空
func outputContent(raw json.RawMessage) []contentPart {
	if len(raw) == 0 {
		return nil
	}
	var output struct {
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(raw, &output); err != nil {
		return nil
	}
	return contentParts(output.Content)
}

// contentParts 逐一解析內容區塊，略過非物件的元素
func contentParts(raw json.RawMessage) []contentPart {
	if len(raw) == 0 {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	parts := make([]contentPart, 0, len(items))
	for _, item := range items {
		var p contentPart
		if err := json.Unmarshal(item, &p); err != nil {
			continue
		}
		parts = append(parts, p)
	}
	return parts
}
