// Package lib provides a Go SDK to break down tasks into actionable steps
// with an LLM.
//
// This package allows applications to use the same pipeline as the taskbreak
// CLI and web server without shelling out to the binary: the task is
// validated, a prompt is built from a template, a single chat completion is
// requested and the answer is returned verbatim.
//
// # Quick Start
//
//	client, err := lib.New(ctx, lib.Config{
//	    Provider: lib.ProviderOpenAI,
//	    APIKey:   os.Getenv("OPENAI_API_KEY"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	hours := 2.0
//	b, err := client.Breakdown(ctx, lib.TaskRequest{
//	    Name:        "Clean the house",
//	    Description: "Deep clean kitchen and bathrooms",
//	    Effort:      lib.EffortMedium,
//	    Complexity:  3,
//	    TotalHours:  &hours,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(b.Text)
//
// # Providers
//
// The SDK supports these providers:
//
//   - [ProviderOpenAI]: OpenAI compatible chat completions API (default).
//   - [ProviderAnthropic]: Anthropic messages API.
//   - [ProviderGemini]: Google Gemini API.
//   - [ProviderOllama]: Local Ollama server, no API key required.
//   - [ProviderFake]: Canned local answers for testing, no network involved.
//
// When [Config].APIKey is empty the key is read from TASKBREAK_API_KEY or the
// provider variable (OPENAI_API_KEY, ANTHROPIC_API_KEY, GEMINI_API_KEY).
//
// # Templates
//
// The prompt is built from a template. The built-in ones are listed with
// [Client.Templates] and selected with [Config].Template. Some templates ask
// the model to flag unrealistic time estimates, in that case
// [Breakdown].Caution is set when the answer contains "warning" and
// [Breakdown].CautionMessage has a message to show to the user.
//
// # Health Checks
//
// Run preflight checks to verify the configuration:
//
//	for _, r := range client.Doctor(ctx) {
//	    fmt.Printf("%s: %s (%s)\n", r.ID, r.Message, r.Status)
//	}
//
// # Error Handling
//
// All methods return errors that can be inspected with [errors.Is]:
//
//   - [ErrNotValid]: Invalid input, for example a blank task name. No request
//     is sent to the LLM provider.
//   - [ErrCompletion]: The LLM provider call failed. The client can be reused.
//   - [ErrNotFound]: Unknown template.
//
// # Testing
//
// Use [ProviderFake] to write tests without network access:
//
//	client, _ := lib.New(ctx, lib.Config{Provider: lib.ProviderFake})
//
// # Thread Safety
//
// A [Client] is safe for concurrent use from multiple goroutines. Submissions
// don't share state.
package lib
