// Package chat2png renders exported chat transcripts as a sequence of
// phone-sized PNG pages that look like a messaging app conversation.
//
// # Quick Start
//
// Create a converter, read a transcript, and convert it:
//
//	conv, err := chat2png.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	text, err := chat2png.ReadTranscript("chat.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := conv.Convert(ctx, chat2png.Input{
//	    Transcript: text,
//	    Participants: chat2png.Participants{
//	        Primary:   chat2png.Identity{Name: "Alice"},
//	        Secondary: chat2png.Identity{Name: "Bob", Aliases: []string{"Bobby"}},
//	    },
//	    OutputDir: "pages",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Stats.Pages, "pages")
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Transcript parsing: "DD/MM/YYYY, HH:mm - Sender: text" records, where a
//     body runs until the next record header
//  2. Bubble splitting: messages taller than the maximum element height are
//     cut at line boundaries into continuation bubbles
//  3. Page layout: a greedy pass packs bubbles and date labels into pages
//  4. Rendering: pages are drawn with fogleman/gg and written as PNG files
//     by a bounded pool of workers while layout continues
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := chat2png.NewConverter(
//	    chat2png.WithAssetPath("/path/to/assets"), // fonts/{name}.ttf, images/{name}.png
//	    chat2png.WithFont("regular"),
//	    chat2png.WithBackground("wallpaper"),
//	    chat2png.WithWorkers(4),
//	)
//
// Per-conversion options are passed via Input:
//
//	result, err := conv.Convert(ctx, chat2png.Input{
//	    Transcript:   text,
//	    Participants: participants,
//	    OutputDir:    "pages",
//	    Parse:        &chat2png.ParseSettings{Policy: chat2png.PolicyAbort},
//	    Layout:       &chat2png.LayoutSettings{RepeatDateLabel: true},
//	})
//
// # Error Handling
//
// The package defines sentinel errors for common failure cases:
//
//	if errors.Is(err, chat2png.ErrUnknownSender) {
//	    // add the sender as an alias
//	}
//
// With PolicyAbort the first bad record is returned as a *ParseError that
// carries its line number.
package chat2png
