package formatter

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/tvx/internal/models"
	"github.com/desertthunder/tvx/internal/shared"
	th "github.com/desertthunder/tvx/internal/testing"
)

func strPtr(s string) *string { return &s }

func fixtureShows() []models.Show {
	dome := th.MakeShow(1, "Under the Dome", "Drama", "Science-Fiction", "Thriller")
	rating := 6.5
	dome.Rating.Average = &rating
	dome.Premiered = strPtr("2013-06-24")
	dome.Status = "Ended"
	dome.Network = &models.Network{Name: "CBS"}

	poi := th.MakeShow(2, "Person of Interest", "Action", "Crime", "Science-Fiction")
	return []models.Show{dome, poi}
}

func fixtureDetails() *models.ShowDetails {
	runtime := 60
	show := fixtureShows()[0]
	show.Runtime = &runtime
	show.Summary = strPtr("<p><b>Under the Dome</b> is the story of a small town.</p>")
	return &models.ShowDetails{
		Show: show,
		Embedded: &models.Embedded{Cast: []models.CastMember{
			{Person: models.Person{Name: "Mike Vogel"}, Character: models.Character{Name: "Dale Barbara"}},
			{Person: models.Person{Name: "Jane Doe"}, Character: models.Character{Name: "Narrator"}, Voice: true},
		}},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ShowsToCSV", func(t *testing.T) {
		data, err := ShowsToCSV(fixtureShows())
		if err != nil {
			t.Fatalf("ShowsToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "ID,Name,Genres,Rating,Premiered,Status,Channel,URL\n") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "1,Under the Dome,Drama;Science-Fiction;Thriller,6.5,2013-06-24,Ended,CBS,https://www.tvmaze.com/shows/1") {
			t.Errorf("CSV missing first row, got: %s", output)
		}
		if !strings.Contains(output, "2,Person of Interest,Action;Crime;Science-Fiction,-,,,,") {
			t.Errorf("CSV second row should render missing values, got: %s", output)
		}
	})

	t.Run("ShowsToMarkdown", func(t *testing.T) {
		data, err := ShowsToMarkdown("Page 0", fixtureShows())
		if err != nil {
			t.Fatalf("ShowsToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{"# Page 0", "**Shows**: 2", "| 1 | [Under the Dome](https://www.tvmaze.com/shows/1) |"} {
			if !strings.Contains(output, want) {
				t.Errorf("markdown missing %q, got: %s", want, output)
			}
		}
	})

	t.Run("ShowsToMarkdown escapes pipes", func(t *testing.T) {
		data, _ := ShowsToMarkdown("x", []models.Show{th.MakeShow(9, "A | B")})
		if !strings.Contains(string(data), `A \| B`) {
			t.Errorf("pipe not escaped: %s", data)
		}
	})

	t.Run("ShowsToText", func(t *testing.T) {
		data, _ := ShowsToText(fixtureShows())
		want := "1. Under the Dome (#1) [6.5] - Drama, Science-Fiction, Thriller\n2. Person of Interest (#2) [-] - Action, Crime, Science-Fiction\n"
		if string(data) != want {
			t.Errorf("ShowsToText() = %q, want %q", data, want)
		}
	})

	t.Run("ShowsToJSON", func(t *testing.T) {
		data, err := ShowsToJSON(nil)
		if err != nil || string(data) != "[]" {
			t.Errorf("ShowsToJSON(nil) = %s, %v", data, err)
		}

		data, _ = ShowsToJSON(fixtureShows())
		var decoded []models.Show
		if err := json.Unmarshal(data, &decoded); err != nil || len(decoded) != 2 {
			t.Errorf("ShowsToJSON output not decodable: %v", err)
		}
	})

	t.Run("GroupedToText", func(t *testing.T) {
		data, _ := GroupedToText(models.GroupByGenre(fixtureShows()))
		output := string(data)

		if !strings.HasPrefix(output, "Action (1)\n") {
			t.Errorf("genres should be sorted, got: %s", output)
		}
		if !strings.Contains(output, "Science-Fiction (2)\n  - Under the Dome (#1) [6.5]\n  - Person of Interest (#2) [-]\n") {
			t.Errorf("unexpected Science-Fiction section: %s", output)
		}
	})

	t.Run("DetailsToMarkdown", func(t *testing.T) {
		t.Run("without poster", func(t *testing.T) {
			data, err := DetailsToMarkdown(fixtureDetails(), "")
			if err != nil {
				t.Fatalf("DetailsToMarkdown failed: %v", err)
			}

			output := string(data)
			for _, want := range []string{
				"# Under the Dome",
				"Under the Dome is the story of a small town.",
				"**Runtime**: 1h 00m",
				"**Channel**: CBS",
				"## Cast",
				"- Mike Vogel as Dale Barbara",
				"- Jane Doe as Narrator (voice)",
			} {
				if !strings.Contains(output, want) {
					t.Errorf("details missing %q, got: %s", want, output)
				}
			}
			if strings.Contains(output, "![Poster]") {
				t.Error("poster should be omitted")
			}
		})

		t.Run("with poster", func(t *testing.T) {
			data, _ := DetailsToMarkdown(fixtureDetails(), "poster.jpg")
			if !strings.Contains(string(data), "![Poster](poster.jpg)") {
				t.Errorf("poster missing: %s", data)
			}
		})

		t.Run("nil details", func(t *testing.T) {
			if _, err := DetailsToMarkdown(nil, ""); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	})

	t.Run("Render rejects unknown format", func(t *testing.T) {
		if _, err := Render(fixtureShows(), "xml", ""); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestDownloadImage(t *testing.T) {
	t.Run("EmptyURL", func(t *testing.T) {
		if _, err := DownloadImage(""); err == nil {
			t.Error("expected error for empty URL")
		}
	})

	t.Run("NonOK", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		if _, err := DownloadImage(server.URL); err == nil {
			t.Error("expected error for 404")
		}
	})
}

func TestWriters(t *testing.T) {
	t.Run("WriteExport", func(t *testing.T) {
		for _, format := range []string{FormatCSV, FormatMarkdown, FormatJSON, FormatText} {
			t.Run(format, func(t *testing.T) {
				path := filepath.Join(t.TempDir(), "nested", "shows."+format)

				if err := WriteExport(fixtureShows(), format, path); err != nil {
					t.Fatalf("WriteExport failed: %v", err)
				}

				th.AssertFileExists(t, path)
				if content := th.MustReadFile(t, path); !strings.Contains(content, "Under the Dome") {
					t.Errorf("export missing show name: %s", content)
				}
			})
		}

		t.Run("missing path", func(t *testing.T) {
			if err := WriteExport(fixtureShows(), FormatCSV, ""); !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
		})
	})

	t.Run("WriteDetailsExport", func(t *testing.T) {
		t.Run("with poster", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("jpeg-bytes"))
			}))
			defer server.Close()

			details := fixtureDetails()
			details.Image = &models.Image{Medium: server.URL + "/poster.jpg"}
			dir := filepath.Join(t.TempDir(), "dome")

			result, err := WriteDetailsExport(details, dir, true)
			if err != nil {
				t.Fatalf("WriteDetailsExport failed: %v", err)
			}

			if len(result.Files) != 2 || result.Poster == "" {
				t.Errorf("expected README and poster, got %+v", result)
			}
			if got := th.MustReadFile(t, result.Poster); got != "jpeg-bytes" {
				t.Errorf("unexpected poster content %q", got)
			}
			if readme := th.MustReadFile(t, filepath.Join(dir, "README.md")); !strings.Contains(readme, "![Poster](poster.jpg)") {
				t.Errorf("README should reference poster: %s", readme)
			}
		})

		t.Run("poster failure still writes README", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer server.Close()

			details := fixtureDetails()
			details.Image = &models.Image{Medium: server.URL}
			dir := t.TempDir()

			result, err := WriteDetailsExport(details, dir, true)
			if err != nil {
				t.Fatalf("WriteDetailsExport failed: %v", err)
			}
			if result.Poster != "" || len(result.Files) != 1 {
				t.Errorf("expected README only, got %+v", result)
			}
		})

		t.Run("default directory is show id", func(t *testing.T) {
			wd, _ := os.Getwd()
			tmp := t.TempDir()
			if err := os.Chdir(tmp); err != nil {
				t.Fatalf("chdir failed: %v", err)
			}
			defer os.Chdir(wd)

			result, err := WriteDetailsExport(fixtureDetails(), "", false)
			if err != nil {
				t.Fatalf("WriteDetailsExport failed: %v", err)
			}
			if result.Directory != "1" {
				t.Errorf("expected directory '1', got %q", result.Directory)
			}
			th.AssertFileExists(t, filepath.Join(tmp, "1", "README.md"))
		})
	})
}
