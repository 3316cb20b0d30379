// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/projidx/internal/meta"
)

const bashCompletionScript = `# bash completion for projidx
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_projidx()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "list featured show fetch invalidate diff status serve completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local cache="--backend -b --location -l"
    local common="--attrs -a --color -c --filter -f --output -o --sort -s --titles -t $cache"

    case "$cmd" in
        list)
            local opts="$common --all"
            ;;
        fetch)
            local opts="$common --refresh -r"
            ;;
        featured|show|status)
            local opts="$common"
            ;;
        invalidate)
            local opts="$cache --purge"
            ;;
        diff)
            local opts="$cache --color -c"
            ;;
        serve)
            local opts="$cache --addr --warm"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json yaml raw" -- "$cur") )
            return 0
            ;;
        --backend|-b)
            COMPREPLY=( $(compgen -W "none memory file sqlite s3" -- "$cur") )
            return 0
            ;;
    esac

    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
}

complete -F _projidx projidx
`

const zshCompletionScript = `#compdef projidx

_projidx() {
  local -a cmds
  cmds=(
    'list:list published projects'
    'featured:list featured projects'
    'show:show one project'
    'fetch:fetch the project index through the cache'
    'invalidate:drop the cached project index'
    'diff:compare the cached index with the remote document'
    'status:show cache configuration and contents'
    'serve:serve the project index as a JSON API'
    'completion:generate shell completion script'
  )

  local -a cache
  cache=(
  '(-b --backend)'{-b,--backend}'[cache backend]:backend:(none memory file sqlite s3)'
  '(-l --location)'{-l,--location}'[index location]:location:_files'
  )

  local -a common
  common=(
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text json yaml raw)'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'projidx commands' cmds
    return
  fi

  case $words[2] in
    list)
      _arguments -C $common $cache '--all[include unpublished projects]'
      ;;
    fetch)
      _arguments -C $common $cache '(-r --refresh)'{-r,--refresh}'[invalidate first]'
      ;;
    featured|status)
      _arguments -C $common $cache
      ;;
    show)
      _arguments -C $common $cache '1:slug'
      ;;
    invalidate)
      _arguments -C $cache '--purge[remove entries older than]:age'
      ;;
    diff)
      _arguments -C $cache '(-c --color)'{-c,--color}'[enable colored text]'
      ;;
    serve)
      _arguments -C $cache '--addr[listen address]:addr' '--warm[fetch before serving]'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _projidx projidx
`

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	w := Writer(cmd)

	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		if strings.HasSuffix(sh, "zsh") {
			fmt.Fprint(w, zshCompletionScript)
		} else if strings.HasSuffix(sh, "bash") {
			fmt.Fprint(w, bashCompletionScript)
		} else {
			fmt.Fprintln(os.Stderr, "usage: projidx completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func CompletionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "projidx completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
