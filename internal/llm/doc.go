// Package llm is a small multi-provider completion client.
//
// Providers are chosen once from the available credentials in a fixed
// priority order (see Select). Google, OpenAI and Anthropic are spoken to over
// their REST APIs; Groq and local servers use the OpenAI-compatible chat
// endpoint. Requests with WebSearch set are sent to Gemini through the genai
// SDK with Google Search grounding enabled.
package llm
