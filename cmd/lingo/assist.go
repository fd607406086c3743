package main

import (
	"fmt"
	"strings"

	// Packages
	httpclient "github.com/mutablelogic/go-lingo/pkg/httpclient"
	version "github.com/mutablelogic/go-lingo/pkg/version"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type AssistCommands struct {
	Explain   ExplainCommand   `cmd:"" name:"explain" help:"Explain a word." group:"ASSISTANT"`
	Tips      TipsCommand      `cmd:"" name:"tips" help:"Show usage tips for a word." group:"ASSISTANT"`
	Translate TranslateCommand `cmd:"" name:"translate" help:"Translate a word." group:"ASSISTANT"`
	Analyse   AnalyseCommand   `cmd:"" name:"analyse" help:"Analyse a passage of text." group:"ASSISTANT"`
}

type ExplainCommand struct {
	Word string `arg:"" name:"word" help:"Word text"`
}

type TipsCommand struct {
	Word string `arg:"" name:"word" help:"Word text"`
}

type TranslateCommand struct {
	Word string `arg:"" name:"word" help:"Word text"`
}

type AnalyseCommand struct {
	Text []string `arg:"" name:"text" help:"Text to analyse, or - for standard input"`
}

type VersionCommand struct{}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *ExplainCommand) Run(ctx *Globals) error {
	return assist(ctx, httpclient.AssistExplain, cmd.Word)
}

func (cmd *TipsCommand) Run(ctx *Globals) error {
	return assist(ctx, httpclient.AssistTips, cmd.Word)
}

func (cmd *TranslateCommand) Run(ctx *Globals) error {
	return assist(ctx, httpclient.AssistTranslate, cmd.Word)
}

func (cmd *AnalyseCommand) Run(ctx *Globals) error {
	client, err := ctx.Client()
	if err != nil {
		return err
	}
	text := strings.Join(cmd.Text, " ")
	if text == "-" {
		if text, err = readContent(text); err != nil {
			return err
		}
	}
	return ctx.finish(client.TextAssistantStream(ctx.ctx, text, ctx.stream()))
}

func (cmd *VersionCommand) Run(ctx *Globals) error {
	_, err := fmt.Println(string(version.JSON(execName())))
	return err
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func assist(ctx *Globals, kind httpclient.Assist, word string) error {
	client, err := ctx.Client()
	if err != nil {
		return err
	}
	return ctx.finish(client.WordAssistantStream(ctx.ctx, kind, word, ctx.stream()))
}
