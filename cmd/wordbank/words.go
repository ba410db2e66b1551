package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"

	"github.com/lehmann314159/wordbank/internal/models"
)

const dateLayout = "2006-01-02"

var languageFlag = &cli.StringFlag{
	Name:    "language",
	Usage:   "only include words translated into `LANGUAGE`",
	Aliases: []string{"l"},
}

var listCommand = &cli.Command{
	Name:  "list",
	Usage: "List dictionary words",
	Flags: []cli.Flag{
		languageFlag,
		&cli.StringFlag{
			Name:  "category",
			Usage: "only include words in `CATEGORY`",
		},
		&cli.StringFlag{
			Name:  "sort",
			Usage: "order by `ORDER` (alphabetical, newest, oldest)",
		},
		&cli.IntFlag{
			Name:  "limit",
			Usage: "show at most `N` words",
		},
	},
	Action: func(c *cli.Context) error {
		svc, _, closeDB, err := openService(c, true)
		if err != nil {
			return err
		}
		defer closeDB()

		words, err := svc.Browse(c.Context, models.BrowseFilter{
			Language: c.String("language"),
			Category: c.String("category"),
			Sort:     c.String("sort"),
			Limit:    c.Int("limit"),
		})
		if err != nil {
			return err
		}

		printWords(c.App.Writer, words)
		return nil
	},
}

var searchCommand = &cli.Command{
	Name:      "search",
	Usage:     "Search headwords by prefix",
	ArgsUsage: "TERM",
	Flags:     []cli.Flag{languageFlag},
	Action: func(c *cli.Context) error {
		if err := requireArgs(c, 1); err != nil {
			return err
		}

		svc, _, closeDB, err := openService(c, true)
		if err != nil {
			return err
		}
		defer closeDB()

		words, err := svc.Search(c.Context, c.Args().First(), c.String("language"))
		if err != nil {
			return err
		}

		printWords(c.App.Writer, words)
		return nil
	},
}

var showCommand = &cli.Command{
	Name:      "show",
	Usage:     "Show a word and its translations",
	ArgsUsage: "ID",
	Action: func(c *cli.Context) error {
		if err := requireArgs(c, 1); err != nil {
			return err
		}

		svc, _, closeDB, err := openService(c, true)
		if err != nil {
			return err
		}
		defer closeDB()

		word, err := svc.Get(c.Context, c.Args().First())
		if err != nil {
			return err
		}

		printWord(c.App.Writer, word)
		return nil
	},
}

var addCommand = &cli.Command{
	Name:  "add",
	Usage: "Add a new headword",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "word", Usage: "the English `HEADWORD`", Required: true},
		&cli.StringFlag{Name: "definition", Usage: "the English `DEFINITION`", Required: true},
		&cli.StringFlag{Name: "pronunciation", Usage: "pronunciation `GUIDE`"},
		&cli.StringSliceFlag{Name: "example", Usage: "usage `SENTENCE` (repeatable)"},
		&cli.StringFlag{Name: "category", Usage: "word `CATEGORY`"},
		&cli.StringFlag{Name: "contributor", Usage: "contributor `NAME`"},
		&cli.StringSliceFlag{Name: "translation", Usage: "initial translation as `LANGUAGE=DEFINITION` (repeatable)"},
	},
	Action: func(c *cli.Context) error {
		req := models.CreateWordRequest{
			Word:                 c.String("word"),
			EnglishDefinition:    c.String("definition"),
			EnglishPronunciation: c.String("pronunciation"),
			EnglishExamples:      c.StringSlice("example"),
			Category:             c.String("category"),
			Contributor:          c.String("contributor"),
		}
		for _, value := range c.StringSlice("translation") {
			t, err := parseTranslation(value)
			if err != nil {
				return err
			}
			req.InitialTranslations = append(req.InitialTranslations, t)
		}

		if err := req.Validate(); err != nil {
			return err
		}

		svc, _, closeDB, err := openService(c, true)
		if err != nil {
			return err
		}
		defer closeDB()

		id, err := svc.Add(c.Context, &req)
		if err != nil {
			return err
		}

		fmt.Fprintln(c.App.Writer, id)
		return nil
	},
}

var translateCommand = &cli.Command{
	Name:      "translate",
	Usage:     "Append a translation to a word",
	ArgsUsage: "ID",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "language", Usage: "translation `LANGUAGE`", Required: true},
		&cli.StringFlag{Name: "definition", Usage: "the `DEFINITION` in that language", Required: true},
		&cli.StringFlag{Name: "pronunciation", Usage: "pronunciation `GUIDE`"},
		&cli.StringSliceFlag{Name: "example", Usage: "usage `SENTENCE` (repeatable)"},
		&cli.StringFlag{Name: "contributor", Usage: "contributor `NAME`"},
	},
	Action: func(c *cli.Context) error {
		if err := requireArgs(c, 1); err != nil {
			return err
		}

		req := models.TranslationRequest{
			Language:      c.String("language"),
			Definition:    c.String("definition"),
			Pronunciation: c.String("pronunciation"),
			Examples:      c.StringSlice("example"),
			Contributor:   c.String("contributor"),
		}
		if err := req.Validate(); err != nil {
			return err
		}

		svc, _, closeDB, err := openService(c, true)
		if err != nil {
			return err
		}
		defer closeDB()

		id, err := svc.AddTranslation(c.Context, c.Args().First(), &req)
		if err != nil {
			return err
		}

		fmt.Fprintln(c.App.Writer, id)
		return nil
	},
}

var languagesCommand = &cli.Command{
	Name:  "languages",
	Usage: "List languages present in the dictionary",
	Action: func(c *cli.Context) error {
		svc, _, closeDB, err := openService(c, true)
		if err != nil {
			return err
		}
		defer closeDB()

		for _, lang := range svc.AvailableLanguages(c.Context) {
			fmt.Fprintln(c.App.Writer, lang)
		}
		return nil
	},
}

var categoriesCommand = &cli.Command{
	Name:  "categories",
	Usage: "List categories present in the dictionary",
	Action: func(c *cli.Context) error {
		svc, _, closeDB, err := openService(c, true)
		if err != nil {
			return err
		}
		defer closeDB()

		categories, err := svc.Categories(c.Context)
		if err != nil {
			return err
		}

		for _, category := range categories {
			fmt.Fprintln(c.App.Writer, category)
		}
		return nil
	},
}

func printWords(w io.Writer, words []*models.Word) {
	tbl := table.New("ID", "Word", "Category", "Translations", "Added").WithWriter(w)
	for _, word := range words {
		tbl.AddRow(word.ID, word.Word, word.Category, len(word.Translations), formatDate(word.DateAdded))
	}
	tbl.Print()
}

func printWord(w io.Writer, word *models.Word) {
	fmt.Fprintf(w, "%s\n", word.Word)
	if word.EnglishPronunciation != "" {
		fmt.Fprintf(w, "  /%s/\n", word.EnglishPronunciation)
	}
	fmt.Fprintf(w, "  %s\n", word.EnglishDefinition)
	for _, example := range word.EnglishExamples {
		fmt.Fprintf(w, "  - %s\n", example)
	}
	if word.Category != "" {
		fmt.Fprintf(w, "Category:     %s\n", word.Category)
	}
	if word.Contributor != "" {
		fmt.Fprintf(w, "Contributor:  %s\n", word.Contributor)
	}
	fmt.Fprintf(w, "Added:        %s\n", formatDate(word.DateAdded))
	fmt.Fprintf(w, "Updated:      %s\n", formatDate(word.LastUpdated))

	if len(word.Translations) == 0 {
		return
	}

	fmt.Fprintln(w)
	tbl := table.New("Language", "Definition", "Examples", "Contributor").WithWriter(w)
	for _, t := range word.Translations {
		tbl.AddRow(t.Language, t.Definition, strings.Join(t.Examples, "; "), t.Contributor)
	}
	tbl.Print()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
