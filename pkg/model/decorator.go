package model

// Decorator adjusts a built form model, e.g. to attach theme or registration
// metadata the OpenAPI document does not carry.
type Decorator interface {
	Decorate(*FormModel) error
}

type DecoratorFunc func(*FormModel) error

func (fn DecoratorFunc) Decorate(form *FormModel) error { return fn(form) }
