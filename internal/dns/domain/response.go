package domain

import "fmt"

// maxAnswers is the largest count the 16-bit ANCOUNT field can carry.
const maxAnswers = 65535

// Response represents an authoritative answer to a single Query.
// The header always carries QDCOUNT=1 and ANCOUNT=len(Answers).
type Response struct {
	ID       uint16
	Opcode   uint8
	RCode    RCode
	Question Query
	Answers  []Record
}

// NewResponse constructs a Response echoing q and validates it.
func NewResponse(q Query, answers []Record, rcode RCode) (Response, error) {
	resp := Response{
		ID:       q.ID,
		Opcode:   q.Opcode(),
		RCode:    rcode,
		Question: q,
		Answers:  answers,
	}
	if err := resp.Validate(); err != nil {
		return Response{}, err
	}
	return resp, nil
}

// Validate checks whether the Response fields are structurally valid.
func (resp Response) Validate() error {
	if !resp.RCode.IsValid() {
		return fmt.Errorf("invalid RCode: %d", resp.RCode)
	}
	if resp.Opcode > 15 {
		return fmt.Errorf("invalid opcode: %d", resp.Opcode)
	}
	if len(resp.Answers) > maxAnswers {
		return fmt.Errorf("too many answer records: %d (max %d)", len(resp.Answers), maxAnswers)
	}
	if err := resp.Question.Validate(); err != nil {
		return fmt.Errorf("invalid question: %w", err)
	}
	for i, rr := range resp.Answers {
		if err := rr.Validate(); err != nil {
			return fmt.Errorf("invalid answer record at index %d: %w", i, err)
		}
	}
	return nil
}

// AnswerCount returns the number of answer records in the response.
func (resp Response) AnswerCount() int {
	return len(resp.Answers)
}
