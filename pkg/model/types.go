package model

import internalmodel "github.com/goliatone/go-regforms/internal/model"

// FieldType re-exports the internal FieldType enumeration.
type FieldType = internalmodel.FieldType

const (
	FieldTypeString  = internalmodel.FieldTypeString
	FieldTypeInteger = internalmodel.FieldTypeInteger
	FieldTypeNumber  = internalmodel.FieldTypeNumber
	FieldTypeBoolean = internalmodel.FieldTypeBoolean
	FieldTypeArray   = internalmodel.FieldTypeArray
	FieldTypeObject  = internalmodel.FieldTypeObject
)

const (
	ValidationRuleMin       = internalmodel.ValidationRuleMin
	ValidationRuleMax       = internalmodel.ValidationRuleMax
	ValidationRuleMinLength = internalmodel.ValidationRuleMinLength
	ValidationRuleMaxLength = internalmodel.ValidationRuleMaxLength
	ValidationRuleMinItems  = internalmodel.ValidationRuleMinItems
	ValidationRulePattern   = internalmodel.ValidationRulePattern
	ValidationRuleAccepted  = internalmodel.ValidationRuleAccepted
)

const (
	WidgetText          = internalmodel.WidgetText
	WidgetEmail         = internalmodel.WidgetEmail
	WidgetPassword      = internalmodel.WidgetPassword
	WidgetNumber        = internalmodel.WidgetNumber
	WidgetDate          = internalmodel.WidgetDate
	WidgetColor         = internalmodel.WidgetColor
	WidgetTextarea      = internalmodel.WidgetTextarea
	WidgetRadio         = internalmodel.WidgetRadio
	WidgetSelect        = internalmodel.WidgetSelect
	WidgetCheckbox      = internalmodel.WidgetCheckbox
	WidgetCheckboxGroup = internalmodel.WidgetCheckboxGroup
	WidgetArray         = internalmodel.WidgetArray
	WidgetObject        = internalmodel.WidgetObject
)

type ValidationRule = internalmodel.ValidationRule
type Option = internalmodel.Option
type Field = internalmodel.Field
type Section = internalmodel.Section
type FormModel = internalmodel.FormModel
