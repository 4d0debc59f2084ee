/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

/*
Package streamagg 是流式 SQL 引擎的聚合编译核心。

规划器给出 GROUP BY 聚合（聚合函数、输入表达式与分组键）后，streamagg 为每个聚合函数
推导出类型特化的增量计算实现，并在可能时将整个聚合拆分为两阶段形式：
局部按时间片折叠成 bin，再跨 bin 合并；滑动窗口则在 memory 中增量加入和撤回 bin。

# 包结构

• types - 标量类型、列、记录结构与值存储类
• expr - 标量表达式，基于 expr-lang/expr 编译
• aggregator - 聚合函数及其 bin/memory 编译器
• operator - 投影、聚合投影与两阶段聚合投影
• checkpoint - 滑动窗口 memory 的持久化编码
• logger - 分级日志

# 入门示例

	v := expr.Col("temperature", types.Scalar(types.Float64, true))
	projection, err := operator.NewBuilder().
		GroupBy(types.NewColumn("deviceId"), expr.Col("deviceId", types.Scalar(types.Utf8, false))).
		Aggregate(types.NewColumn("avg_temp"), aggregator.Avg, v).
		Aggregate(types.NewColumn("max_temp"), aggregator.Max, v).
		Build()
	if err != nil {
		return err
	}

	compiler, err := streamagg.New(streamagg.WithLogLevel(logger.DEBUG))
	if err != nil {
		return err
	}
	plan, err := compiler.Compile(projection)
	if err != nil {
		return err
	}

	// 滚动窗口：每条记录折叠进当前 bin，窗口结束时输出
	var bin operator.Bin
	for _, row := range rows {
		if bin, err = plan.TwoPhase.Fold(bin, row); err != nil {
			return err
		}
	}
	out, err := plan.TwoPhase.TumblingAggregate(key, bin)

# 两阶段模式

COUNT DISTINCT 无法拆分为 bin，包含它的聚合只能整窗重算（Plan.Projection.Emit）。
配置项 twoPhase 控制编译器的选择：

	twoPhase: auto      # 默认，能拆分则拆分
	twoPhase: required  # 无法拆分时编译失败
	twoPhase: disabled  # 始终整窗重算
*/
package streamagg
