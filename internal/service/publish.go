package service

import (
	"log"

	"codeclass/internal/live"
	"codeclass/internal/models"
)

// Publisher delivers state snapshots to live subscribers
type Publisher interface {
	Publish(topic string, payload interface{}) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, interface{}) error { return nil }

func publisherOrNop(p Publisher) Publisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}

func publish(p Publisher, topic string, payload interface{}) {
	if err := p.Publish(topic, payload); err != nil {
		log.Printf("Failed to publish %s snapshot: %v", topic, err)
	}
}

func publishAccount(p Publisher, account *models.Account) {
	publish(p, live.AccountTopic(account.ID), account)
}
