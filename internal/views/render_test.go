package views

import (
	"strings"
	"testing"
)

func TestRenderAppIncludesPanesAndStatus(t *testing.T) {
	out := RenderApp(AppData{
		Header:     "myguide | view: dashboard",
		Main:       "main content",
		Side:       "side content",
		StatusLine: "status: saved",
		Footer:     "keys: 1 dashboard",
	})
	for _, want := range []string{"myguide", "main content", "side content", "status: saved", "keys: 1 dashboard"} {
		if !strings.Contains(out, want) {
			t.Fatalf("frame missing %q:\n%s", want, out)
		}
	}
}

func TestRenderAppShowsNotificationOnlyWhenSet(t *testing.T) {
	without := RenderApp(AppData{Header: "h", Main: "m", Side: "s"})
	if strings.Contains(without, "reminder fired") {
		t.Fatal("notification box rendered without content")
	}
	with := RenderApp(AppData{Header: "h", Main: "m", Side: "s", Notification: "reminder fired"})
	if !strings.Contains(with, "reminder fired") {
		t.Fatalf("notification missing from frame:\n%s", with)
	}
}

func TestRenderMarkdownBlankInput(t *testing.T) {
	if got := RenderMarkdown("  \n\t"); got != "" {
		t.Fatalf("blank markdown = %q, want empty", got)
	}
}
