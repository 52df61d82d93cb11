package chat

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/richinex/parley/model"
)

// ErrUnsupportedModelFamily is returned when token framing constants are not
// known for a model family. Accounting must fail loudly here: silently
// undercounting risks sending oversized requests.
var ErrUnsupportedModelFamily = errors.New("token counting not implemented for model family")

// fallbackEncoding is used when the model name has no registered encoding.
const fallbackEncoding = "cl100k_base"

// replyPrimerTokens is the fixed cost of the assistant reply framing:
// every reply is primed with <|start|>assistant<|message|>.
const replyPrimerTokens = 3

// messageOverhead holds the per-message framing constants for one model
// family. perName adjusts the total when a message carries a name field.
type messageOverhead struct {
	perMessage int
	perName    int
}

// familyOverheads maps model-family prefixes to framing constants.
// gpt-3.5-turbo frames every message as <|start|>{role/name}\n{content}<|end|>\n
// and omits the role when a name is given, hence the -1 adjustment.
// Adding a family is a data change, not a code change.
var familyOverheads = []struct {
	prefix   string
	overhead messageOverhead
}{
	{"gpt-3.5-turbo", messageOverhead{perMessage: 4, perName: -1}},
	{"gpt-4", messageOverhead{perMessage: 3, perName: 1}},
}

// normalizeModelName maps provider naming quirks to the canonical family
// name. Azure deployments spell the 3.5 family without the dot.
func normalizeModelName(name string) string {
	if strings.HasPrefix(name, "gpt-35") {
		return strings.Replace(name, "gpt-35", "gpt-3.5", 1)
	}
	return name
}

// CountConversationTokens computes the number of tokens a list of messages
// will consume under the given model's framing rules, including the fixed
// assistant reply primer. The framing replicates tiktoken's documented
// per-family message accounting exactly; it is not an approximation.
//
// An unknown model name degrades to the cl100k_base encoding; an unknown
// model family is an error.
func CountConversationTokens(messages []model.Message, modelName string) (int, error) {
	name := normalizeModelName(modelName)

	encoding, err := tiktoken.EncodingForModel(name)
	if err != nil {
		encoding, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			return 0, fmt.Errorf("load fallback encoding: %w", err)
		}
	}

	overhead, err := overheadForFamily(name)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, msg := range messages {
		total += overhead.perMessage
		for _, field := range RenderMessage(msg).stringFields() {
			total += len(encoding.Encode(field.value, nil, nil))
			if field.key == "name" {
				total += overhead.perName
			}
		}
	}
	total += replyPrimerTokens

	return total, nil
}

func overheadForFamily(name string) (messageOverhead, error) {
	for _, entry := range familyOverheads {
		if strings.HasPrefix(name, entry.prefix) {
			return entry.overhead, nil
		}
	}
	return messageOverhead{}, fmt.Errorf("%w: %q", ErrUnsupportedModelFamily, name)
}
