package llm

import "encoding/json"

const toolName = "DailyEvents"

// dailyEventsTool is the function schema the model fills in when it decides a
// transcript describes calendar events.
var dailyEventsTool = tool{
	Type: "function",
	Function: toolFunction{
		Name:        toolName,
		Description: "Identifica e registra eventos diários mencionados pelo usuário.",
		Parameters: json.RawMessage(`{
  "type": "object",
  "properties": {
    "date": {
      "type": "string",
      "description": "Data em que os eventos ocorreram no formato DD/MM/YYYY"
    },
    "events": {
      "type": "array",
      "description": "Lista de eventos identificados no dia",
      "items": {
        "type": "object",
        "properties": {
          "title": {"type": "string", "description": "Título do evento"},
          "description": {"type": "string", "description": "Descrição detalhada"},
          "category": {
            "type": "string",
            "enum": ["trabalho", "saude", "pessoal", "familia", "lazer", "estudos", "financeiro", "outros"]
          },
          "priority": {
            "type": "string",
            "enum": ["baixa", "media", "alta", "urgente"]
          },
          "time": {"type": "string", "description": "Horário no formato HH:MM"},
          "location": {"type": "string", "description": "Local do evento"},
          "reminder": {"type": "string", "description": "Lembrete, por exemplo '1h antes'"}
        },
        "required": ["title", "description", "category", "priority"]
      }
    }
  },
  "required": ["date", "events"]
}`),
	},
}
