package tier

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Mieluoxxx/Vegax-Route/internal/availability"
	"github.com/Mieluoxxx/Vegax-Route/internal/probe"
)

var (
	// ErrUnknownTier 未知层级
	ErrUnknownTier = errors.New("unknown tier")
	// ErrTierExhausted 主选、兜底与外部链全部耗尽
	ErrTierExhausted = errors.New("tier exhausted: no candidate available")
)

// ChainResolver 外部兜底链解析器（外部协作方，只消费其接口）
// 返回空字符串表示链中也没有可用候选
type ChainResolver interface {
	Resolve(ctx context.Context, tierName string, force, quiet bool, agentOverride string) (string, error)
}

// Options 层级解析选项
type Options struct {
	Force         bool
	Quiet         bool
	TTLOverride   int
	AgentOverride string // 透传给外部链解析器
}

// Resolver 层级解析器
// 把层级名解析为当前确实可服务的具体模型。
// 候选按固定顺序组成列表依次尝试：primary、fallback、外部链——
// 外部链只是列表的最后一项，不做特殊分支
type Resolver struct {
	checker     *availability.Checker
	config      *Config
	gatewayMode bool
	chain       ChainResolver
}

// NewResolver 创建层级解析器
func NewResolver(checker *availability.Checker, config *Config, gatewayMode bool, chain ChainResolver) *Resolver {
	if config == nil {
		config = DefaultConfig()
	}
	return &Resolver{
		checker:     checker,
		config:      config,
		gatewayMode: gatewayMode,
		chain:       chain,
	}
}

// candidate 单个候选解析项
type candidate struct {
	name    string
	resolve func(ctx context.Context) (string, error)
}

// Resolve 解析层级到具体模型
// primary 成功即短路返回，fallback 的供应商不会被探测；
// primary 失败是预期内的正常事件，记录信息日志后继续，不升级
func (r *Resolver) Resolve(ctx context.Context, tierName string, opts Options) (string, error) {
	spec, ok := r.config.Lookup(tierName, r.gatewayMode)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTier, tierName)
	}

	return r.tryCandidates(ctx, r.buildCandidates(tierName, spec, opts, false), tierName, opts)
}

// ResolveChain 优先询问外部链解析器，再回退到常规候选
func (r *Resolver) ResolveChain(ctx context.Context, tierName string, opts Options) (string, error) {
	spec, ok := r.config.Lookup(tierName, r.gatewayMode)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTier, tierName)
	}

	return r.tryCandidates(ctx, r.buildCandidates(tierName, spec, opts, true), tierName, opts)
}

// ==================== 私有方法 ====================

// buildCandidates 组装候选列表
// chainFirst 时外部链排到最前（resolve-chain 命令），否则排在最后
func (r *Resolver) buildCandidates(tierName string, spec Spec, opts Options, chainFirst bool) []candidate {
	var candidates []candidate

	if spec.Primary != "" {
		candidates = append(candidates, r.modelCandidate("primary", spec.Primary, opts))
	}
	// fallback 与 primary 相同则不重复尝试
	if spec.Fallback != "" && spec.Fallback != spec.Primary {
		candidates = append(candidates, r.modelCandidate("fallback", spec.Fallback, opts))
	}

	if r.chain != nil {
		chainCandidate := candidate{
			name: "chain",
			resolve: func(ctx context.Context) (string, error) {
				return r.chain.Resolve(ctx, tierName, opts.Force, opts.Quiet, opts.AgentOverride)
			},
		}
		if chainFirst {
			candidates = append([]candidate{chainCandidate}, candidates...)
		} else {
			candidates = append(candidates, chainCandidate)
		}
	}

	return candidates
}

// modelCandidate 把模型检查包装成候选项
func (r *Resolver) modelCandidate(name, modelSpec string, opts Options) candidate {
	return candidate{
		name: name,
		resolve: func(ctx context.Context) (string, error) {
			result, err := r.checker.Check(ctx, modelSpec, probe.Options{
				Force:       opts.Force,
				TTLOverride: opts.TTLOverride,
				Quiet:       opts.Quiet,
			})
			if err != nil {
				return "", err
			}
			if !result.OK() {
				if !opts.Quiet {
					log.Printf("层级候选 %s (%s) 不可用: status=%s", name, modelSpec, result.Status)
				}
				return "", nil
			}
			return modelSpec, nil
		},
	}
}

// tryCandidates 依次尝试候选，第一个成功者立即返回
func (r *Resolver) tryCandidates(ctx context.Context, candidates []candidate, tierName string, opts Options) (string, error) {
	for _, cand := range candidates {
		modelSpec, err := cand.resolve(ctx)
		if err != nil {
			// 解析器内部错误（未知供应商、存储故障）直接上抛
			return "", err
		}
		if modelSpec != "" {
			if !opts.Quiet {
				log.Printf("层级 %s 解析为 %s (候选: %s)", tierName, modelSpec, cand.name)
			}
			return modelSpec, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrTierExhausted, tierName)
}
