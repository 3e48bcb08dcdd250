package tier

import (
	"bytes"
	"context"
	"log"
	"os/exec"
	"strings"
)

// CommandChain 基于外部命令的兜底链解析器适配
// 调用形如 `<cmd> <tier> [--force] [--quiet] [--agent <name>]` 的
// 兄弟工具，标准输出的非空首行即为解析出的模型；
// 命令缺失或执行失败都按"链中无候选"处理，不算错误
type CommandChain struct {
	command string
}

// NewCommandChain 创建外部命令链适配器
// command 为空时 Resolve 恒返回空串
func NewCommandChain(command string) *CommandChain {
	return &CommandChain{command: command}
}

// Resolve 调用外部链解析器
func (c *CommandChain) Resolve(ctx context.Context, tierName string, force, quiet bool, agentOverride string) (string, error) {
	if c.command == "" {
		return "", nil
	}

	args := []string{tierName}
	if force {
		args = append(args, "--force")
	}
	if quiet {
		args = append(args, "--quiet")
	}
	if agentOverride != "" {
		args = append(args, "--agent", agentOverride)
	}

	cmd := exec.CommandContext(ctx, c.command, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		if !quiet {
			log.Printf("外部链解析器执行失败: %v", err)
		}
		return "", nil
	}

	// 取首行，外部工具可能在结果后追加说明
	output := strings.TrimSpace(stdout.String())
	if line, _, found := strings.Cut(output, "\n"); found {
		output = strings.TrimSpace(line)
	}

	return output, nil
}
