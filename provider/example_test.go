package provider_test

import (
	"context"
	"fmt"

	"smartbar/model"
	"smartbar/provider"
	"smartbar/provider/testutil"
)

// A provider id from settings.toml selects the engine.
func ExampleNewProvider() {
	p, err := provider.NewProvider(provider.Config{
		Type:  provider.MapProviderIDToType("ollama"),
		Model: "llama3.1",
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%T %s\n", p, p.GetModel())
	// Output: *provider.OllamaProvider llama3.1
}

// Quick prompts use model.Complete to collect the whole streamed reply.
func ExampleNewProvider_complete() {
	var p model.Provider = testutil.NewReplyProvider("1. What is ", "the forecast?")

	text, err := model.Complete(context.Background(), p, testutil.SingleUserMessage("Suggest 1 question."))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(text)
	// Output: 1. What is the forecast?
}

func ExampleStripVendorPrefix() {
	fmt.Println(provider.StripVendorPrefix("qwen/qwen3-coder:free"))
	// Output: qwen3-coder:free
}
