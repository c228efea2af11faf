package runner

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/intake/pkg/domain"
)

// parseAnswer turns a typed line into an answer for q.
// Choice questions accept 1-based option numbers or option values;
// multi-choice answers are comma separated.
func parseAnswer(q domain.Question, text string) (domain.Answer, error) {
	text = strings.TrimSpace(text)
	switch q.Kind {
	case domain.KindSingleChoice:
		v, err := resolveOption(q, text)
		if err != nil {
			return domain.Answer{}, err
		}
		return domain.Scalar(v), nil
	case domain.KindMultiChoice:
		var values []string
		for _, part := range strings.Split(text, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			v, err := resolveOption(q, part)
			if err != nil {
				return domain.Answer{}, err
			}
			values = append(values, v)
		}
		return domain.Multi(values...), nil
	default:
		return domain.Scalar(text), nil
	}
}

func resolveOption(q domain.Question, token string) (string, error) {
	if n, err := strconv.Atoi(token); err == nil {
		if n >= 1 && n <= len(q.Options) {
			return q.Options[n-1].Value, nil
		}
	}
	for _, o := range q.Options {
		if o.Value == token || strings.EqualFold(o.Label, token) {
			return o.Value, nil
		}
	}
	return "", fmt.Errorf("%q is not one of the options", token)
}
