package service

import (
	"strconv"

	"github.com/lshigami/Formlet/internal/apperr"
	"github.com/lshigami/Formlet/internal/model"
)

// DecodedAnswer holds the storage-side fields of an answer value: free text
// for the text question types, chosen option ids for the choice types.
type DecodedAnswer struct {
	Text      string
	OptionIDs []uint
}

// EncodeAnswer maps a persisted answer to the generic value keyed by question
// id: the text, the single chosen option id, or the list of chosen option ids.
// A question type outside the enum is a data inconsistency, not a user error.
func EncodeAnswer(questionType model.QuestionType, answer model.Answer) (any, error) {
	switch questionType {
	case model.QuestionShortText, model.QuestionLongText:
		return answer.Text, nil
	case model.QuestionRadio:
		if len(answer.Choices) == 0 {
			return nil, nil
		}
		return answer.Choices[0].ID, nil
	case model.QuestionCheckbox:
		ids := make([]uint, len(answer.Choices))
		for i, choice := range answer.Choices {
			ids[i] = choice.ID
		}
		return ids, nil
	default:
		return nil, apperr.Newf(apperr.CodeInternal, "question type %s not supported", questionType)
	}
}

// DecodeAnswer maps a raw submitted value (scalar string or string list, per
// the form-data parser) to answer fields for the given question type. A radio
// scalar becomes a singleton choice set; a checkbox value must already be a
// list, a scalar is malformed rather than silently wrapped.
func DecodeAnswer(questionType model.QuestionType, raw any) (DecodedAnswer, error) {
	switch questionType {
	case model.QuestionShortText, model.QuestionLongText:
		text, ok := raw.(string)
		if !ok {
			return DecodedAnswer{}, apperr.Validation("text answer must be a single value")
		}
		return DecodedAnswer{Text: text}, nil

	case model.QuestionRadio:
		switch v := raw.(type) {
		case string:
			id, err := parseOptionID(v)
			if err != nil {
				return DecodedAnswer{}, err
			}
			return DecodedAnswer{OptionIDs: []uint{id}}, nil
		case []string:
			// More than one id is shaped like a valid choice set here; the
			// exactly-one rule is enforced by answer validation.
			ids, err := parseOptionIDs(v)
			if err != nil {
				return DecodedAnswer{}, err
			}
			return DecodedAnswer{OptionIDs: ids}, nil
		default:
			return DecodedAnswer{}, apperr.Validation("radio answer must be an option id")
		}

	case model.QuestionCheckbox:
		list, ok := raw.([]string)
		if !ok {
			return DecodedAnswer{}, apperr.Validation("checkbox answer must be a list of option ids")
		}
		ids, err := parseOptionIDs(list)
		if err != nil {
			return DecodedAnswer{}, err
		}
		return DecodedAnswer{OptionIDs: ids}, nil

	default:
		return DecodedAnswer{}, apperr.Newf(apperr.CodeInternal, "question type %s not supported", questionType)
	}
}

func parseOptionID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, apperr.Newf(apperr.CodeValidation, "invalid option id %q", s)
	}
	return uint(id), nil
}

func parseOptionIDs(values []string) ([]uint, error) {
	ids := make([]uint, len(values))
	for i, v := range values {
		id, err := parseOptionID(v)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}
