// 示例：声明一个三步流水线（fetch -> transform -> report）并顺序执行。
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/stevelan1995/stepflow/pkg/pipeline"
	"github.com/stevelan1995/stepflow/pkg/step"
)

func main() {
	p, err := pipeline.Define(func(b *pipeline.Builder) {
		b.Step("fetch", nil, fetchJob, step.DefaultOptions())
		b.Step("transform", []string{"fetch"}, transformJob, step.DefaultOptions())
		b.Step("report", []string{"transform"}, reportJob, step.Options{
			Cache:   true,
			Retries: 2,
		})
	})
	if err != nil {
		log.Fatalf("定义流水线失败: %v", err)
	}

	fmt.Println(p.ToMermaid())

	res, err := p.Run(context.Background(), pipeline.RunOptions{Mode: pipeline.ModeSequential})
	if err != nil {
		log.Fatalf("流水线执行失败: %v", err)
	}

	for _, name := range res.Order {
		sr := res.Steps[name]
		fmt.Printf("step=%s status=%s retries=%d output=%v\n", sr.Name, sr.Status, sr.Retries, sr.Output)
	}
}

func fetchJob(ctx context.Context, in step.Input) (any, error) {
	time.Sleep(10 * time.Millisecond)
	return []int{1, 2, 3, 4, 5}, nil
}

func transformJob(ctx context.Context, in step.Input) (any, error) {
	nums := in.One.([]int)
	sum := 0
	for _, n := range nums {
		sum += n
	}
	return sum, nil
}

func reportJob(ctx context.Context, in step.Input) (any, error) {
	return fmt.Sprintf("总和: %v", in.One), nil
}
