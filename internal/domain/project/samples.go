package project

// Sample scripts seeded on first startup. They demonstrate the editor and
// are protected from deletion.
var sampleScripts = map[string]struct {
	Script string
	Notes  string
}{
	"Welcome Demo": {
		Script: `Welcome to Wolf Studio, your AI-powered script editor!

This is a demonstration of how you can create engaging scripts and convert them to natural-sounding speech.

Try editing this text, then click 'Generate Audio' to hear it spoken aloud. You can adjust the speed, volume, and voice settings to customize the output.

The AI assistant can help you improve your scripts, check for flow issues, or make them more engaging. Just ask!`,
		Notes: "Demo script showcasing basic functionality",
	},
	"Podcast Intro": {
		Script: `Hello and welcome back to Tech Talk Tuesday, the podcast where we explore the latest innovations in technology.

I'm your host, and today we're diving deep into the world of artificial intelligence and its impact on content creation.

We'll be discussing how AI tools like Wolf Studio are revolutionizing the way we write, edit, and produce audio content. So grab your coffee, settle in, and let's get started!`,
		Notes: "Sample podcast introduction with natural pacing",
	},
	"Product Demo": {
		Script: `Introducing Wolf Studio - the future of voice technology where your words come to life with stunning clarity and natural expression.

Our advanced text-to-speech system transforms any written content into professional-quality audio, perfect for presentations, podcasts, audiobooks, and more.

With customizable voices, adjustable speed controls, and AI-powered script optimization, creating compelling audio content has never been easier.

Experience the difference today and revolutionize your content creation workflow.`,
		Notes: "Product demonstration script with marketing tone",
	},
}
