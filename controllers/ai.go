package controllers

import (
	"github.com/gofiber/fiber/v2"
)

// The AI endpoints return hand-crafted payloads. There is no inference
// behind them; the front end treats them as a preview of the feature.

// GetAISuggestions returns scheduling suggestions
func GetAISuggestions(c *fiber.Ctx) error {
	suggestions := []fiber.Map{
		{
			"id":          "1",
			"type":        "optimization",
			"title":       "Otimização de Horário",
			"description": "Reagrupe suas reuniões da tarde para ter 2h livres para trabalho focado.",
			"confidence":  0.85,
			"category":    "productivity",
			"action":      "reschedule",
			"targetTime":  "14:00-16:00",
		},
		{
			"id":          "2",
			"type":        "break",
			"title":       "Tempo de Descanso",
			"description": "Adicione um intervalo de 15min entre reuniões para melhor produtividade.",
			"confidence":  0.92,
			"category":    "wellness",
			"action":      "add_break",
			"duration":    15,
		},
		{
			"id":          "3",
			"type":        "balance",
			"title":       "Agenda Balanceada",
			"description": "Considere mover reuniões longas para manhã quando você está mais focado.",
			"confidence":  0.78,
			"category":    "balance",
			"action":      "move_to_morning",
			"targetTime":  "09:00-11:00",
		},
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    suggestions,
	})
}

// RecommendTime returns candidate slots for a requested duration
func RecommendTime(c *fiber.Ctx) error {
	recommendations := []fiber.Map{
		{
			"startTime":  "2024-01-15T09:00:00Z",
			"endTime":    "2024-01-15T10:00:00Z",
			"confidence": 0.95,
			"reason":     "Horário de pico de produtividade baseado no seu histórico",
			"conflicts":  []fiber.Map{},
		},
		{
			"startTime":  "2024-01-15T14:00:00Z",
			"endTime":    "2024-01-15T15:00:00Z",
			"confidence": 0.82,
			"reason":     "Encaixa bem entre seus outros compromissos",
			"conflicts":  []fiber.Map{},
		},
		{
			"startTime":  "2024-01-16T10:00:00Z",
			"endTime":    "2024-01-16T11:00:00Z",
			"confidence": 0.88,
			"reason":     "Dia com agenda mais leve",
			"conflicts":  []fiber.Map{},
		},
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    recommendations,
	})
}

// SmartSchedule returns a canned optimized schedule for a period
func SmartSchedule(c *fiber.Ctx) error {
	schedule := []fiber.Map{
		{
			"date": "2024-01-15",
			"slots": []fiber.Map{
				{
					"time":     "09:00-10:30",
					"task":     "Revisão de projeto importante",
					"type":     "deep-work",
					"priority": "high",
					"reason":   "Horário de pico de produtividade",
				},
				{
					"time":     "10:45-11:30",
					"task":     "Reunião de equipe",
					"type":     "meeting",
					"priority": "medium",
					"reason":   "Encaixe otimizado com agenda da equipe",
				},
				{
					"time":     "14:00-15:00",
					"task":     "Responder e-mails",
					"type":     "administrative",
					"priority": "low",
					"reason":   "Tarefa administrativa no período menos produtivo",
				},
			},
		},
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"schedule":                    schedule,
			"optimization_score":          0.87,
			"estimated_productivity_gain": "23%",
			"conflicts_resolved":          3,
		},
	})
}

// GetProductivityAnalysis returns a canned productivity breakdown
func GetProductivityAnalysis(c *fiber.Ctx) error {
	analysis := fiber.Map{
		"peakHours": fiber.Map{
			"morning":   fiber.Map{"start": "09:00", "end": "11:00", "productivity": 0.92},
			"afternoon": fiber.Map{"start": "14:00", "end": "16:00", "productivity": 0.75},
			"evening":   fiber.Map{"start": "19:00", "end": "21:00", "productivity": 0.68},
		},
		"patterns": []fiber.Map{
			{
				"pattern":        "Você é mais produtivo nas manhãs de segunda a quarta-feira",
				"confidence":     0.89,
				"recommendation": "Agende tarefas importantes nestes horários",
			},
			{
				"pattern":        "Reuniões longas à tarde reduzem sua produtividade",
				"confidence":     0.81,
				"recommendation": "Prefira reuniões curtas depois do almoço",
			},
		},
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    analysis,
	})
}
