package extract

import (
	"fmt"
	"strings"
)

// PromptContext carries the per-turn memory snapshot serialized for the model.
type PromptContext struct {
	CurrentDate string // DD/MM/YYYY
	Memory      string // serialized recent events + interactions
	Identities  string // rendered identity contexts, may be empty
}

// primaryPrompt builds the context-bearing system prompt for the first
// attempt. The model may choose not to invoke the tool.
func primaryPrompt(pc PromptContext) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Você é um assistente de memória pessoal avançado. Hoje é %s.\n\n", pc.CurrentDate)

	sb.WriteString("CONTEXTO DA MEMÓRIA:\n")
	sb.WriteString(pc.Memory)
	sb.WriteString("\n\n")

	sb.WriteString("IDENTIDADES CONHECIDAS:\n")
	sb.WriteString(pc.Identities)
	sb.WriteString("\n\n")

	sb.WriteString(`REGRAS CRÍTICAS:
1. SEMPRE use a ferramenta DailyEvents quando mencionar eventos, datas ou localizações
2. Use APENAS estas categorias: trabalho, saude, pessoal, familia, lazer, estudos, financeiro, outros
3. Use APENAS estas prioridades: baixa, media, alta, urgente
4. Use APENAS campos em inglês: title, description, category, priority, time, location, reminder
5. SEMPRE retorne uma lista de eventos válida, mesmo que seja apenas um evento

EXEMPLOS DE CATEGORIZAÇÃO:
- "reunião" → category: trabalho
- "viagem" → category: lazer
- "consulta médica" → category: saude
- "estudar" → category: estudos
- "família" → category: familia
- "conta" → category: financeiro

QUANDO USAR DailyEvents:
- Mencionar datas (ontem, hoje, amanhã, datas específicas)
- Mencionar localizações ou viagens
- Mencionar eventos ou atividades
- Mencionar pessoas ou relacionamentos

FORMATO OBRIGATÓRIO:
- date: data no formato DD/MM/YYYY
- events: lista de eventos com title, description, category, priority e,
  opcionalmente, time (HH:MM), location e reminder`)

	return sb.String()
}

// forcedPrompt builds the stricter example-driven prompt for the second
// attempt, where tool invocation is mandated and free-form replies are not
// permitted.
func forcedPrompt(pc PromptContext, transcript string) string {
	var sb strings.Builder

	sb.WriteString("VOCÊ DEVE USAR A FERRAMENTA DailyEvents PARA ESTE TEXTO!\n\n")
	fmt.Fprintf(&sb, "Texto do usuário: %q\n", transcript)
	fmt.Fprintf(&sb, "Data atual: %s\n\n", pc.CurrentDate)

	sb.WriteString(`INSTRUÇÕES OBRIGATÓRIAS:
1. SEMPRE use a ferramenta DailyEvents para este tipo de texto
2. Identifique TODOS os eventos mencionados
3. Use categorias: trabalho, saude, pessoal, familia, lazer, estudos, financeiro, outros
4. Use prioridades: baixa, media, alta, urgente
5. Use campos em inglês: title, description, category, priority, time, location, reminder

EXEMPLO DE RESPOSTA OBRIGATÓRIA:
{
  "date": "07/07/2025",
  "events": [
    {
      "title": "Evento mencionado",
      "description": "Descrição do evento",
      "category": "outros",
      "priority": "media"
    }
  ]
}

NÃO RESPONDA COMO CONVERSA NORMAL. USE APENAS A FERRAMENTA DailyEvents!`)

	return sb.String()
}
