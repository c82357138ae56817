package service

// DefaultPrompt asks the model for a single 1/0 answer.
const DefaultPrompt = "Does the submitted image show a reporter in a television studio? " +
	"If yes, respond with '1'. If not, respond with '0'. " +
	"Return only '1' or '0' without providing any additional information. " +
	"If you are unsure, respond with '0'"

// ClassificationOptions controls how a single image is classified
type ClassificationOptions struct {
	Prompt string
	// Binary requests an integer answer; otherwise the raw text is kept.
	Binary bool
}

// DefaultOptions returns the default prompt in binary mode
func DefaultOptions() ClassificationOptions {
	return ClassificationOptions{
		Prompt: DefaultPrompt,
		Binary: true,
	}
}

// WithPrompt returns options using prompt, keeping the default when prompt is empty
func (opts ClassificationOptions) WithPrompt(prompt string) ClassificationOptions {
	if prompt != "" {
		opts.Prompt = prompt
	}
	return opts
}

// WithBinary returns options with binary mode set
func (opts ClassificationOptions) WithBinary(binary bool) ClassificationOptions {
	opts.Binary = binary
	return opts
}
