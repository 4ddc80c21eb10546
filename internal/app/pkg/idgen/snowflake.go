package idgen

import (
	"sync"
	"time"
)

// SnowflakeIDGenerator 告警 ID 生成器
// ID 格式: 秒级时间偏移 * 100000 + 机器ID(2位) * 1000 + 序列号(3位)
// 同一秒内单调递增，多实例写入同一张 alerts 表时不冲突
type SnowflakeIDGenerator struct {
	mu        sync.Mutex
	epoch     int64 // 起始时间戳 (2024-01-01 00:00:00 UTC)
	machineID int64 // 机器ID (0-99)
	sequence  int64 // 序列号 (0-999)
	lastTime  int64 // 上次生成ID的秒级时间戳
	now       func() time.Time
}

const (
	maxMachineID = 99  // 最大机器ID
	maxSequence  = 999 // 每秒最大序列号
)

// NewSnowflakeIDGenerator 创建ID生成器，machineID 超出 0-99 时取 0
func NewSnowflakeIDGenerator(machineID int64) *SnowflakeIDGenerator {
	if machineID < 0 || machineID > maxMachineID {
		machineID = 0
	}

	return &SnowflakeIDGenerator{
		epoch:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Unix(),
		machineID: machineID,
		now:       time.Now,
	}
}

// NextID 生成下一个ID
// 序列号用尽时等待下一秒；时钟回拨时沿用上次的秒数
func (g *SnowflakeIDGenerator) NextID() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now().Unix()
	if now < g.lastTime {
		now = g.lastTime
	}

	if now == g.lastTime {
		g.sequence++
		if g.sequence > maxSequence {
			for now <= g.lastTime {
				time.Sleep(time.Millisecond)
				now = g.now().Unix()
			}
			g.sequence = 0
		}
	} else {
		g.sequence = 0
	}

	g.lastTime = now

	return (now-g.epoch)*100000 + g.machineID*1000 + g.sequence
}

// 全局默认ID生成器（机器ID为1）
var defaultGenerator = NewSnowflakeIDGenerator(1)

// GenerateID 生成ID（使用默认生成器）
func GenerateID() int64 {
	return defaultGenerator.NextID()
}
