package service

import (
	"fmt"

	"vespawatch/internal/models"
	"vespawatch/pkg/proximity"
)

func HornetObject(h *models.Hornet) proximity.MapObject {
	sub := "No absence timed"
	if h.DurationSeconds != nil {
		sub = fmt.Sprintf("Away %d s", *h.DurationSeconds)
	}
	return proximity.MapObject{
		Kind:     proximity.KindHornet,
		ID:       h.ID,
		Position: h.Position(),
		Display: proximity.DisplayMeta{
			Symbol:   "hornet",
			Title:    fmt.Sprintf("Hornet #%d", h.ID),
			Subtitle: fmt.Sprintf("%s, heading %.0f°", sub, h.Direction),
			Colors:   h.Colors(),
		},
	}
}

func ApiaryObject(a *models.Apiary) proximity.MapObject {
	return proximity.MapObject{
		Kind:     proximity.KindApiary,
		ID:       a.ID,
		Position: a.Position(),
		Display: proximity.DisplayMeta{
			Symbol:   "apiary",
			Title:    fmt.Sprintf("Apiary #%d", a.ID),
			Subtitle: fmt.Sprintf("Infestation level %d", a.InfestationLevel),
		},
	}
}

func NestObject(n *models.Nest) proximity.MapObject {
	symbol, sub := "nest", "Active"
	if n.Destroyed {
		symbol, sub = "nest-destroyed", "Destroyed"
	}
	return proximity.MapObject{
		Kind:     proximity.KindNest,
		ID:       n.ID,
		Position: n.Position(),
		Display: proximity.DisplayMeta{
			Symbol:   symbol,
			Title:    fmt.Sprintf("Nest #%d", n.ID),
			Subtitle: sub,
		},
	}
}

func HornetObjects(list []models.Hornet) []proximity.MapObject {
	out := make([]proximity.MapObject, len(list))
	for i := range list {
		out[i] = HornetObject(&list[i])
	}
	return out
}

func ApiaryObjects(list []models.Apiary) []proximity.MapObject {
	out := make([]proximity.MapObject, len(list))
	for i := range list {
		out[i] = ApiaryObject(&list[i])
	}
	return out
}

func NestObjects(list []models.Nest) []proximity.MapObject {
	out := make([]proximity.MapObject, len(list))
	for i := range list {
		out[i] = NestObject(&list[i])
	}
	return out
}
