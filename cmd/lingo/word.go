package main

import (
	"strconv"
	"time"

	// Packages
	lingo "github.com/mutablelogic/go-lingo"
	schema "github.com/mutablelogic/go-lingo/pkg/schema"
	table "github.com/mutablelogic/go-lingo/pkg/ui/table"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type WordCommands struct {
	ListWords  ListWordsCommand  `cmd:"" name:"words" help:"List words on the review list." group:"WORD"`
	GetWord    GetWordCommand    `cmd:"" name:"word" help:"Show a word on the review list." group:"WORD"`
	AddWord    AddWordCommand    `cmd:"" name:"add-word" help:"Add a word to the review list." group:"WORD"`
	RemoveWord RemoveWordCommand `cmd:"" name:"remove-word" help:"Remove a word from the review list." group:"WORD"`
	Review     ReviewCommand     `cmd:"" name:"review" help:"Mark a word as reviewed and show the next one." group:"WORD"`
	Due        DueCommand        `cmd:"" name:"due" help:"Show the number of words due for review." group:"WORD"`
}

type ListWordsCommand struct {
	Keyword string `name:"keyword" help:"Only words which contain the keyword"`
	Sort    string `name:"sort" help:"Sort field"`
	Desc    bool   `name:"desc" help:"Sort in descending order"`
	Since   string `name:"since" help:"Only words added after this date (YYYY-MM-DD)"`
	Page    int    `name:"page" help:"Page number" default:"1"`
	Limit   int    `name:"limit" help:"Words per page" default:"20"`
}

type GetWordCommand struct {
	Word string `arg:"" name:"word" help:"Word ID or text"`
}

type AddWordCommand struct {
	Word string `arg:"" name:"word" help:"Word text"`
}

type RemoveWordCommand struct {
	Word string `arg:"" name:"word" help:"Word ID or text"`
}

type ReviewCommand struct {
	ID uint64 `arg:"" name:"id" help:"Word ID"`
}

type DueCommand struct{}

type wordList []schema.Word

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *ListWordsCommand) Run(ctx *Globals) error {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	params := schema.SearchParams{
		PageNumber: cmd.Page,
		PageSize:   cmd.Limit,
		Keyword:    cmd.Keyword,
		SortBy:     cmd.Sort,
	}
	if cmd.Since != "" {
		since, err := time.ParseInLocation(time.DateOnly, cmd.Since, time.Local)
		if err != nil {
			return lingo.ErrBadParameter.Withf("since %q", cmd.Since)
		}
		params.StartDate = &since
	}
	if cmd.Desc {
		params.SortDirection = "desc"
	}
	page, err := client.ListWords(ctx.ctx, params)
	if err != nil {
		return err
	}
	if len(page.Items) == 0 {
		return ctx.out.Status("No words found")
	}
	if err := ctx.out.Table(wordList(page.Items)); err != nil {
		return err
	}
	return ctx.out.Status("Page %d of %d, %d words", page.PageNumber, page.TotalPages, page.TotalCount)
}

func (cmd *GetWordCommand) Run(ctx *Globals) error {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// Look up a word by its text
	id, err := strconv.ParseUint(cmd.Word, 10, 64)
	if err != nil {
		exists, err := client.WordExistsByText(ctx.ctx, cmd.Word)
		if err != nil {
			return err
		} else if !exists {
			return ctx.out.Status("%q is not on the review list", cmd.Word)
		}
		return ctx.out.Status("%q is on the review list", cmd.Word)
	}

	if exists, err := client.WordExists(ctx.ctx, id); err != nil {
		return err
	} else if !exists {
		return ctx.out.Status("Word %d is not on the review list", id)
	}
	word, err := client.GetWord(ctx.ctx, id)
	if err != nil {
		return err
	}
	return ctx.out.Table(wordList{*word})
}

func (cmd *AddWordCommand) Run(ctx *Globals) error {
	client, err := ctx.Client()
	if err != nil {
		return err
	}
	if err := client.AddWord(ctx.ctx, cmd.Word); err != nil {
		return err
	}
	return ctx.out.Status("Added %q", cmd.Word)
}

func (cmd *RemoveWordCommand) Run(ctx *Globals) error {
	client, err := ctx.Client()
	if err != nil {
		return err
	}
	if id, err := strconv.ParseUint(cmd.Word, 10, 64); err == nil {
		if err := client.RemoveWord(ctx.ctx, id); err != nil {
			return err
		}
	} else if err := client.RemoveWordByText(ctx.ctx, cmd.Word); err != nil {
		return err
	}
	return ctx.out.Status("Removed %q", cmd.Word)
}

func (cmd *ReviewCommand) Run(ctx *Globals) error {
	client, err := ctx.Client()
	if err != nil {
		return err
	}
	if err := client.ReviewWord(ctx.ctx, cmd.ID); err != nil {
		return err
	}
	next, err := client.NextReviewWord(ctx.ctx, cmd.ID)
	if err != nil {
		return err
	}
	if next.UserWordID == 0 {
		return ctx.out.Status("No more words due for review")
	}
	return ctx.out.Table(wordList{*next})
}

func (cmd *DueCommand) Run(ctx *Globals) error {
	client, err := ctx.Client()
	if err != nil {
		return err
	}
	count, err := client.ReviewWordCount(ctx.ctx)
	if err != nil {
		return err
	}
	return ctx.out.Status("%d words due for review", count)
}

///////////////////////////////////////////////////////////////////////////////
// TABLES

func (l wordList) Header() []string {
	return []string{"ID", "WORD", "REVIEWS", "LAST REVIEWED", "NEXT REVIEW"}
}

func (l wordList) Len() int {
	return len(l)
}

func (l wordList) Row(i int) []any {
	w := l[i]
	return []any{w.UserWordID, table.Bold{Value: w.Word}, w.ReviewCount, w.LastReviewed, w.NextReviewDate}
}
